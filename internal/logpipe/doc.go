// Package logpipe routes log events from application components to sinks.
//
// A [Pipeline] is built once at startup from a [LevelResolver] (the global
// minimum severity plus per-source overrides) and an ordered list of sink
// bindings. Components never reach for a global logger; they receive a
// [*Logger] scoped to their source name:
//
//	resolver := logpipe.NewLevelResolver(model.SeverityInformation,
//	    logpipe.Override{Prefix: "gin", Minimum: model.SeverityWarning})
//	p := logpipe.New(resolver,
//	    logpipe.WithSink("console", logpipe.KindConsole, console, model.SeverityDebug),
//	)
//	defer p.Close()
//
//	log := p.Logger("controller.Home")
//	log.Info("listed sessions", "count", 2)
//
// An event reaches a sink only if its severity is at or above both the
// resolver's effective minimum for the event source and the binding's own
// minimum. A failing sink never blocks delivery to the others.
package logpipe
