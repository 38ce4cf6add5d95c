package mqtt

import "fmt"

// Topic prefixes for the showcue namespace.
//
// Layout: showcue/{category}/...
const (
	// TopicPrefix is the base for all showcue topics.
	TopicPrefix = "showcue"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "showcue/system"

	// TopicPrefixProgram is the base for program output topics.
	TopicPrefixProgram = "showcue/program"

	// TopicPrefixRender is the base for renderer topics.
	TopicPrefixRender = "showcue/render"
)

// Topics provides builders for showcue MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmd := topics.RenderCommand(2)
//	// Returns: "showcue/render/2/command"
type Topics struct{}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the node status topic (also used for the LWT).
//
// Example: showcue/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// =============================================================================
// Program Topics
// =============================================================================

// ProgramLive returns the retained "last cue live" topic.
//
// Example: showcue/program/live
func (Topics) ProgramLive() string {
	return fmt.Sprintf("%s/live", TopicPrefixProgram)
}

// ProgramEvent returns the topic for program events such as stop_all.
//
// Example: showcue/program/event/stop_all
func (Topics) ProgramEvent(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixProgram, eventType)
}

// =============================================================================
// Render Topics
// =============================================================================

// RenderCommand returns the command topic for one screen's renderer.
// The preview monitor uses the "preview" segment.
//
// Example: showcue/render/2/command
func (Topics) RenderCommand(screen int) string {
	if screen < 0 {
		return fmt.Sprintf("%s/preview/command", TopicPrefixRender)
	}
	return fmt.Sprintf("%s/%d/command", TopicPrefixRender, screen)
}

// RenderStatus returns the topic a renderer announces itself on.
//
// Example: showcue/render/2/status
func (Topics) RenderStatus(screen int) string {
	if screen < 0 {
		return fmt.Sprintf("%s/preview/status", TopicPrefixRender)
	}
	return fmt.Sprintf("%s/%d/status", TopicPrefixRender, screen)
}

// =============================================================================
// Control Topics
// =============================================================================

// Trigger returns the ingress topic accepting plain-text show commands
// ("play 3", "take", "timecode 01:00:00:00").
//
// Example: showcue/trigger
func (Topics) Trigger() string {
	return fmt.Sprintf("%s/trigger", TopicPrefix)
}

// BridgeCommand returns the retained control topic for an output bridge
// companion (NDI, Syphon, SDI).
//
// Example: showcue/bridge/ndi/command
func (Topics) BridgeCommand(name string) string {
	return fmt.Sprintf("%s/bridge/%s/command", TopicPrefix, name)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllRenderStatus returns a pattern matching every renderer status topic.
//
// Pattern: showcue/render/+/status
func (Topics) AllRenderStatus() string {
	return fmt.Sprintf("%s/+/status", TopicPrefixRender)
}

// AllTopics returns a pattern matching all showcue topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: showcue/#
func (Topics) AllTopics() string {
	return "showcue/#"
}
