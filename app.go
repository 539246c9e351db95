package skyisle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"runtime"
)

type systemFn any

type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	stages             []Stage
	systems            map[string]map[State]map[statePhase][]systemFn
	systemsStateless   map[string][]systemFn
	resources          map[reflect.Type]any
	// closers are resources implementing io.Closer, in insertion order.
	closers []io.Closer

	quitRequested bool
	maxFrames     int
	frames        int
}

// NewApp creates an app with the default stages and no states.
func NewApp() *App {
	app := newApp()
	app.build()
	return app
}

// NewStatefulApp creates an app whose systems may be bound to states in [initial, final].
func NewStatefulApp(initial, final State) *App {
	app := newApp()
	app.stateful = true
	app.initialState = initial
	app.finalState = final
	app.state = initial
	app.build()
	return app
}

func newApp() *App {
	return &App{
		resources:        make(map[reflect.Type]any),
		systems:          make(map[string]map[State]map[statePhase][]systemFn),
		systemsStateless: make(map[string][]systemFn),
	}
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// State is the current state, meaningful only in stateful apps.
func (app *App) State() State {
	return app.state
}

// Frames is the number of frames completed by Run or Step.
func (app *App) Frames() int {
	return app.frames
}

// Run drives frames until ctx is cancelled, the final state is reached,
// a quit is requested or the frame limit is hit.
func (app *App) Run(ctx context.Context) error {
	log := app.Logger()
	if app.stateful {
		log.Debugf("running in stateful mode, initial state %v", app.initialState)
	} else {
		log.Debugf("running in stateless mode")
	}

	app.Start()
	for {
		select {
		case <-ctx.Done():
			app.Stop()
			return ctx.Err()
		default:
		}

		if done := app.Step(); done {
			app.Stop()
			return nil
		}
	}
}

// Start enters the initial state. Run calls it; tests that drive Step directly call it once.
func (app *App) Start() {
	if app.stateful {
		app.state = app.initialState
		app.callSystems(app.state, enter)
	}
}

// Stop leaves the current state if it has not been left yet.
func (app *App) Stop() {
	if app.stateful && app.state != app.finalState {
		app.callSystems(app.state, exit)
		app.state = app.finalState
		app.callSystems(app.state, enter)
	}
	if app.stateful {
		app.callSystems(app.state, exit)
	}
	if err := app.closeResources(); err != nil {
		app.Logger().Errorf("releasing resources: %v", err)
	}
}

// closeResources closes io.Closer resources in reverse insertion order, once.
func (app *App) closeResources() error {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}

// Step runs one frame and reports whether the app is finished.
func (app *App) Step() bool {
	app.callSystems(app.state, execute)
	app.frames++

	if app.stateful {
		if app.quitRequested {
			app.changeState(app.finalState)
		}
		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}
		if app.state == app.finalState {
			return true
		}
	} else if app.quitRequested {
		return true
	}

	return app.maxFrames > 0 && app.frames >= app.maxFrames
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		runs := 1
		if execute == phase && FixedUpdate == stage.UpdateType {
			runs = app.fixedStepsDue()
		}

		for i := 0; i < runs; i++ {
			app.callStage(stage, state, phase)
			if execute == phase && FixedUpdate == stage.UpdateType {
				app.fixedStepDone()
			}
		}
	}
}

func (app *App) callStage(stage Stage, state State, phase statePhase) {
	// On execute, call stateless/always run systems first
	if execute == phase {
		for _, system := range app.systemsStateless[stage.Name] {
			app.callSystem(system)
		}
	}

	// Call stateful systems, if required
	if app.stateful {
		if systemsInStage, ok := app.systems[stage.Name]; ok {
			if systemsInState, ok := systemsInStage[state]; ok {
				if systemsInPhase, ok := systemsInState[phase]; ok {
					for _, system := range systemsInPhase {
						app.callSystem(system)
					}
				}
			}
		}
	}
}

// fixedStepsDue reads the step count prepared by the time system.
// Without a Time resource the fixed stage runs once per frame.
func (app *App) fixedStepsDue() int {
	t, ok := app.resources[reflect.TypeOf(Time{})].(*Time)
	if !ok {
		return 1
	}
	return t.Steps
}

func (app *App) fixedStepDone() {
	if t, ok := app.resources[reflect.TypeOf(Time{})].(*Time); ok {
		t.Tick++
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	if newState == app.state {
		return
	}
	app.Logger().Debugf("state %v -> %v", app.state, newState)
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("%s is not a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
		if c, ok := resource.(io.Closer); ok {
			app.closers = append(app.closers, c)
		}
	}
	return app
}

// Resource looks up a resource by type.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	typed, ok := r.(*T)
	return typed, ok
}

// MustResource panics when the resource is missing.
func MustResource[T any](app *App) *T {
	r, ok := Resource[T](app)
	if !ok {
		panic(fmt.Sprintf("resource %s is missing", reflect.TypeOf((*T)(nil)).Elem()))
	}
	return r
}

func (app *App) callSystem(system systemFn) {
	app.callSystemInternal(system)
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystemInternal(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			app.panicUnresolved(systemType, systemValue, argType)
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			app.panicUnresolved(systemType, systemValue, argType)
		}
	}
	systemValue.Call(args)
}

func (app *App) panicUnresolved(systemType reflect.Type, systemValue reflect.Value, argType reflect.Type) {
	msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
		runtime.FuncForPC(systemValue.Pointer()).Name(),
		fmt.Sprint(systemType),
		fmt.Sprint(argType),
	)
	app.Logger().Errorf("%s", msg)
	panic(msg)
}
