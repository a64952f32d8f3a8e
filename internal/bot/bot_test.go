package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	telebot "gopkg.in/telebot.v3"
)

func TestIsConfirmToken(t *testing.T) {
	assert.True(t, isConfirmToken("stake_confirm:10:3"))
	assert.True(t, isConfirmToken("unstake_confirm:4:3"))
	assert.True(t, isConfirmToken("unstake_all_confirm:3"))

	assert.False(t, isConfirmToken("cancel"))
	assert.False(t, isConfirmToken("balance"))
	assert.False(t, isConfirmToken("stake_confirm"))
	assert.False(t, isConfirmToken(""))
}

func TestCommandLabel(t *testing.T) {
	assert.Equal(t, "stake", commandLabel("stake 10 3"))
	assert.Equal(t, "help", commandLabel("/help"))
	assert.Equal(t, "balance", commandLabel("  BALANCE  "))
	assert.Equal(t, "", commandLabel("   "))
}

func TestIsMenuCommand(t *testing.T) {
	assert.True(t, isMenuCommand("/start"))
	assert.True(t, isMenuCommand("help"))
	assert.False(t, isMenuCommand("stake 10 3"))
	assert.False(t, isMenuCommand("balance"))
}

func TestChain_AppliesMiddlewaresInOrder(t *testing.T) {
	var order []string

	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(c telebot.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	h := chain(mw("outer"), mw("inner"))(func(c telebot.Context) error {
		order = append(order, "handler")
		return nil
	})

	assert.NoError(t, h(nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
