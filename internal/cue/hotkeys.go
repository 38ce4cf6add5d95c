package cue

import "strings"

// NormalizeHotkey canonicalises a key sequence for table lookups
// ("ctrl + F1" and "Ctrl+f1" compare equal).
func NormalizeHotkey(key string) string {
	parts := strings.Split(key, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "+")
}

// Hotkeys builds the key → cue id table for cues with a hotkey binding.
// The first cue bound to a key wins. Rebuild it whenever the list changes.
func Hotkeys(cues []Cue) map[string]string {
	table := make(map[string]string)
	for _, c := range cues {
		key := NormalizeHotkey(c.Hotkey)
		if c.ID == "" || key == "" {
			continue
		}
		if _, taken := table[key]; !taken {
			table[key] = c.ID
		}
	}
	return table
}
