package skyisle

import "testing"

type MockModule struct {
	installed bool
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
}

// orderModule records the resources it could see at install time.
type orderModule struct {
	sawResource bool
}

func (m *orderModule) Install(app *App, commands *Commands) {
	_, m.sawResource = Resource[MockResource1](app)
}

func TestAppBuilder_Stateless(t *testing.T) {
	builder := NewAppBuilder()
	app := builder.Build()

	if app.stateful != false {
		t.Errorf("Expected stateful to be false, got %v", app.stateful)
	}
	if app.initialState != 0 {
		t.Errorf("Expected initialState to be 0, got %v", app.initialState)
	}
	if app.finalState != 0 {
		t.Errorf("Expected finalState to be 0, got %v", app.finalState)
	}
}

func TestAppBuilder_UseStates(t *testing.T) {
	builder := NewAppBuilder()
	builder.UseStates(StatePlaying, StateQuit)

	app := builder.Build()

	if app.stateful != true {
		t.Errorf("Expected stateful to be true, got %v", app.stateful)
	}
	if app.initialState != StatePlaying {
		t.Errorf("Expected initialState to be %v, got %v", StatePlaying, app.initialState)
	}
	if app.finalState != StateQuit {
		t.Errorf("Expected finalState to be %v, got %v", StateQuit, app.finalState)
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	if len(builder.modules) != 1 {
		t.Errorf("Expected modules to contain 1 module, got %v", len(builder.modules))
	}
	if mockModule.installed {
		t.Errorf("Install should wait for Build")
	}
}

func TestAppBuilder_Build_WithMultipleModules(t *testing.T) {
	module1 := &MockModule{}
	module2 := &MockModule{}

	builder := NewAppBuilder()
	builder.UseModule(module1)
	builder.UseModule(module2)

	builder.Build()

	if len(builder.modules) != 2 {
		t.Errorf("Expected 2 modules, got %v", len(builder.modules))
	}
	if !module1.installed {
		t.Errorf("Expected Install to be called on the module 1, but it was not")
	}
	if !module2.installed {
		t.Errorf("Expected Install to be called on the module 2, but it was not")
	}
}

func TestAppBuilder_ResourcesBeforeModules(t *testing.T) {
	module := &orderModule{}
	NewAppBuilder().
		UseModule(module).
		UseResources(NewMockResource1("early")).
		Build()

	if !module.sawResource {
		t.Errorf("Expected builder resources to be present when modules install")
	}
}

func TestAppBuilder_MaxFrames(t *testing.T) {
	app := NewAppBuilder().MaxFrames(2).Build()

	if app.Step() {
		t.Errorf("Expected the first frame not to finish the app")
	}
	if !app.Step() {
		t.Errorf("Expected the second frame to finish the app")
	}
}
