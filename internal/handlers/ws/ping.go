package ws

// MessagePing is an application-level keepalive from the client, distinct
// from the protocol-level ping the hub sends.
type MessagePing struct{}

func (msg *MessagePing) GetType() string { return "ping" }

func (msg *MessagePing) Process(ctx *MessageContext) error {
	return ctx.Client.SendJSON(map[string]string{"type": "pong"})
}

// MessagePong lets clients that track latency answer their own pings.
type MessagePong struct{}

func (msg *MessagePong) GetType() string { return "pong" }

func (msg *MessagePong) Process(ctx *MessageContext) error {
	return nil
}
