package aqua

import "github.com/df-mc/dragonfly/server/world"

// Runnable is the interface implemented by scheduled tasks.
// Synchronous tasks receive a transaction of the plugin's main world.
// Asynchronous tasks receive a nil transaction and must use Exec on a world
// or entity handle to touch game state.
type Runnable interface {
	Run(tx *world.Tx)
}

// RunnableFunc adapts an ordinary function to a Runnable.
type RunnableFunc func(tx *world.Tx)

// Run calls f(tx).
func (f RunnableFunc) Run(tx *world.Tx) {
	f(tx)
}
