package engine

// Request is one normalized inbound chat message.
type Request struct {
	Platform string
	UserID   string
	UserName string
	ChatID   string
	IsGroup  bool
	Text     string
}

// Key scopes pending-action and authorization state to one user on one
// platform.
func (r Request) Key() string {
	return r.Platform + ":" + r.UserID
}

// Button is one inline affordance. Action is the opaque token the transport
// round-trips back into the engine's confirm handling.
type Button struct {
	Label  string
	Action string
}

// Response is the engine's only output: formatted text plus an optional
// button grid. It carries no identity and is discarded after delivery.
type Response struct {
	Text    string
	Buttons [][]Button
}

func confirmCancelButtons(actionToken string) [][]Button {
	return [][]Button{{
		{Label: "✅ Confirm", Action: actionToken},
		{Label: "❌ Cancel", Action: "cancel"},
	}}
}
