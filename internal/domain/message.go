package domain

// Channel identifies the transport an announcement arrived on.
type Channel string

const (
	ChannelSMS    Channel = "sms"
	ChannelVoice  Channel = "voice"
	ChannelEmail  Channel = "email"
	ChannelManual Channel = "manual"
)

// RawMessage is the canonical inbound announcement, normalized from a
// channel-specific webhook payload. It is created once per inbound request,
// handed to the extractor, and discarded.
type RawMessage struct {
	// ID correlates pipeline log lines with the request log. Handlers set
	// it from the request ID; the pipeline assigns one when it is empty.
	ID      string
	Text    string
	Channel Channel
	Sender  string
}
