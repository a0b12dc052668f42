// Package scrollfx is a scroll-synchronized animation engine.
//
// It emulates smooth scrolling from raw wheel and touch input and drives
// scroll-coupled effects from the resulting position: continuous bindings
// that write visual channels, viewport triggers that fire once (or on every
// entry) with optional staggered reveals, and media scrubs that seek a
// video or audio clip to match scroll progress.
//
// The package is headless. A host supplies an [InputSource] and a frame
// cadence, and elements that implement [Element] and [Target]. For
// Ebitengine programs, [Run] wires everything up:
//
//	e := scrollfx.NewEngine()
//	hero := scrollfx.NewBox("hero", scrollfx.Rect{Y: 0, Width: 1280, Height: 720})
//	e.RegisterBinding(scrollfx.BindingSpec{
//		Trigger: hero,
//		Domain:  scrollfx.ElementDomain(scrollfx.AnchorTopTop, scrollfx.AnchorBottomTop),
//		Channels: []scrollfx.ChannelSpec{
//			{Channel: scrollfx.ChannelTranslateY, Range: scrollfx.Range{To: -150}},
//		},
//	})
//	scrollfx.Run(e, scrollfx.RunConfig{Title: "demo", ContentHeight: 4000})
//
// Other hosts call [Engine.Start] with their own input source and then
// [Engine.Update] (or [Engine.Step] with an explicit delta) once per frame.
//
// # Tick order
//
// Every tick runs the same stages in the same order:
//
//  1. the test runner (if attached) and the input source's Poll
//  2. the smooth scroller advances toward its target
//  3. trigger gates and their reveals
//  4. bindings, in registration order
//  5. media scrubs
//  6. [Engine.OnTick] subscribers
//
// All stages see one [TickContext], so no stage ever reads a half-updated
// scroll position.
//
// # Registration handles
//
// Every Register call returns a [Handle]. Removing it is idempotent, and
// entries whose element unmounts are pruned on the next tick. Removing a
// media scrub hands playback back to the clip.
//
// # Configuration
//
// [Config] holds the scroller settings; [LoadConfig] reads them from YAML.
// Invalid values are reported as [*ConfigurationError].
//
// # Debug mode
//
// [Engine.SetDebugMode] logs per-tick stage timings and registry events to
// stderr (or the writer given to [Engine.SetLogOutput]).
//
// # Testing
//
// [ManualTime] and [Engine.Step] make ticks deterministic. [InputQueue]
// injects wheel and touch input, spreading drags one event per tick, and
// [LoadTestScript] runs a JSON script of input steps and scroll snapshots.
//
// Audio scrubbing over [beep] lives in the beepmedia subpackage.
//
// [beep]: https://github.com/gopxl/beep
package scrollfx
