// Package intent models the output of the free-form message classifier as a
// closed sum type. The engine dispatches on it with an exhaustive type switch;
// new intents are added here, not as string checks in the router.
package intent

// Op distinguishes the direction of a staking intent.
type Op string

const (
	// OpAdd stakes free balance into a subnet.
	OpAdd Op = "add"
	// OpRemove releases stake from a subnet.
	OpRemove Op = "remove"
)

// Intent is the sealed interface implemented by every classifier variant.
type Intent interface {
	isIntent()
}

// Help requests the command overview.
type Help struct{}

// Privacy requests the privacy notice.
type Privacy struct{}

// Whoami requests the caller's identity as seen by the bot.
type Whoami struct{}

// Confirm executes the caller's pending action, if any.
type Confirm struct{}

// Stake is a parsed staking instruction. Netuid is only meaningful when
// HasNetuid is set; the engine substitutes the configured default otherwise.
// All marks a remove-everything request and takes precedence over Amount.
type Stake struct {
	Op        Op
	Amount    float64
	All       bool
	Netuid    int
	HasNetuid bool
}

// Unknown carries text the classifier could not make sense of.
type Unknown struct {
	Text string
}

func (Help) isIntent()    {}
func (Privacy) isIntent() {}
func (Whoami) isIntent()  {}
func (Confirm) isIntent() {}
func (Stake) isIntent()   {}
func (Unknown) isIntent() {}
