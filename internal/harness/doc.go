// Package harness runs scripted scenarios against a mod.
//
// A scenario drives the bridge lifecycle the way the host frame loop would,
// over an in-memory host, and then checks the recorded trace and the final
// host state. Traces can be compared against golden files.
//
// # Scenario Format
//
// Scenarios are YAML files. Paths are relative to the scenario file:
//
//	name: storm_island
//	description: "The hero dies on the first frame"
//	mod: ../mods/storm
//	fixture: fixtures/hero.yaml
//	steps:
//	  - do: run
//	  - do: load_scene
//	    scene: 0
//	    mode: new_game
//	  - do: frames
//	    count: 3
//	  - do: save
//	    save: slot1.lba
//	assertions:
//	  - type: trace_contains
//	    kind: life
//	    name: LM_SUICIDE
//	    object: 0
//	  - type: final_state
//	    target: object
//	    index: 0
//	    field: life_points
//	    expect: 0
//
// # Steps
//
//   - run: Bridge.Run; expect_error marks a failing entry script as expected
//   - load_scene: BeforeLoadScene then AfterLoadScene (mode new_game, moved, teleported)
//   - load_game: a saved game restore, reading the sidecar of save
//   - save: AfterSaveGame; the save file lives in the run's temp directory
//   - save_valid_pos, restore_valid_pos: the valid position backup
//   - life, track: DoBeforeLife or DoTrack for one object
//   - tasks: ProcessTasks for loop (game, menu, none)
//   - frames: count frames of life, track and tasks for every handled object
//   - advance: move the timer clock by ms without running a frame
//
// # Assertion Types
//
//   - trace_contains: an event of kind, name and object exists
//   - trace_order: events with the given names appear in that order
//   - trace_count: exactly count events match kind and name
//   - final_state: a host value (object field, game_var, scene_var, gold, zlitos)
//   - log_contains: the captured log output contains text
//   - host_calls: exactly count host calls of op were made
//
// # Deterministic Testing
//
// Every scenario runs with a fixed session id, a fresh logical clock and a
// frame clock for script timers, so the same scenario yields a
// byte-identical trace on every run.
package harness
