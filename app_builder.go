package skyisle

type Module interface {
	Install(app *App, cmd *Commands)
}

type AppBuilder struct {
	stateful     bool
	initialState State
	finalState   State
	maxFrames    int
	resources    []any
	modules      []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{}
}

func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.stateful = true
	b.initialState = initialState
	b.finalState = finalState

	return b
}

// MaxFrames bounds Run; zero means unbounded.
func (b *AppBuilder) MaxFrames(n int) *AppBuilder {
	b.maxFrames = n
	return b
}

// UseResources adds resources before any module is installed.
func (b *AppBuilder) UseResources(resources ...any) *AppBuilder {
	b.resources = append(b.resources, resources...)
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

func (b *AppBuilder) Build() *App {
	var app *App
	if b.stateful {
		app = NewStatefulApp(b.initialState, b.finalState)
	} else {
		app = NewApp()
	}
	app.maxFrames = b.maxFrames
	app.addResources(b.resources...)

	app.UseModules(b.modules...)

	return app
}

// UseModules installs modules immediately, in order.
func (app *App) UseModules(modules ...Module) *App {
	commands := &Commands{app: app}
	for _, module := range modules {
		module.Install(app, commands)
	}
	return app
}
