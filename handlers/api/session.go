package api

import (
	"inboxdash/dashboard"
	"inboxdash/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	sessionStateKey = "dashboard"
	localsStateKey  = "dashboardState"
)

// SessionMiddleware loads the session's dashboard state into the request
// and writes it back once the handler chain returns.
func SessionMiddleware(store *session.Store) fiber.Handler {
	store.RegisterType(dashboard.State{})

	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return utils.InternalServerError("Session error", err)
		}

		state, _ := sess.Get(sessionStateKey).(dashboard.State)
		c.Locals(localsStateKey, state)

		err = c.Next()

		if next, ok := c.Locals(localsStateKey).(dashboard.State); ok {
			sess.Set(sessionStateKey, next)
		}
		if saveErr := sess.Save(); saveErr != nil {
			utils.Log.Error("Failed to save session: %v", saveErr)
			if err == nil {
				err = utils.InternalServerError("Session error", saveErr)
			}
		}
		return err
	}
}

// State returns the dashboard state loaded by SessionMiddleware
func State(c *fiber.Ctx) dashboard.State {
	state, _ := c.Locals(localsStateKey).(dashboard.State)
	return state
}

// SetState replaces the dashboard state saved at the end of the request
func SetState(c *fiber.Ctx, state dashboard.State) {
	c.Locals(localsStateKey, state)
}
