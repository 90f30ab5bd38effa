// Package aqua provides small helpers for plugins running on Dragonfly servers.
//
// Aqua wraps common host operations behind short functions:
//   - Entity proximity queries (NearbyEntities, NearbyPlayers)
//   - World and location lookup from names and strings (World, ParseLocation)
//   - Best-effort number parsing (ParseInt, ParseFloat)
//   - Random draws from one shared generator (Int, Element, Shuffle)
//   - Particle effects with count, spread and colour (SpawnParticle)
//   - Online and offline player lookup and messaging (Player, Broadcast)
//   - A tick based task scheduler (RunTask, RunTaskLater, RunTaskTimer)
//
// # Quick Start
//
// Create and enable a plugin in your server setup:
//
//	conf, err := aqua.LoadConfig("aqua.yml")
//	if err != nil {
//	    panic(err)
//	}
//	plugin, err := aqua.New("MyGame", srv, conf)
//	if err != nil {
//	    panic(err)
//	}
//	plugin.Enable()
//	defer plugin.Close()
//
//	for p := range srv.Accept() {
//	    plugin.Track(p)
//	    p.Handle(plugin.NewHandler(&MyHandler{}))
//	}
//
// # Absent results
//
// Lookups and parses return a comma-ok pair. A false result means the world,
// player or number could not be found or parsed:
//
//	loc, ok := aqua.ParseLocation("world", "10", "64", "abc") // ok == false
//
// # Scheduling
//
// Delays and periods are in ticks (20 per second by default). Synchronous
// tasks run inside a transaction of the main world:
//
//	task := aqua.RunTaskTimer(aqua.RunnableFunc(func(tx *world.Tx) {
//	    aqua.Broadcast(tx, "Tick!")
//	}), 20)
//	defer task.Cancel()
package aqua

// Version is the Aqua version.
const Version = "1.0.0"
