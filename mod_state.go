package skyisle

const (
	StatePlaying State = iota
	StatePaused
	StateQuit
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateQuit:
		return "quit"
	}
	return "unknown"
}

// GameStateModule wires pause and quit handling. Needs Time and Input.
type GameStateModule struct{}

func (m GameStateModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(quitSystem).
			InStage(Update).
			RunAlways(),
	)
	if !app.stateful {
		return
	}
	app.UseSystem(
		System(pauseToggleSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(enterPausedSystem).
			InStage(Prelude).
			InState(OnEnter(StatePaused)),
	)
	app.UseSystem(
		System(exitPausedSystem).
			InStage(Prelude).
			InState(OnExit(StatePaused)),
	)
}

func quitSystem(input *Input, cmd *Commands) {
	if input.JustPressed[KeyEscape] || input.CloseRequested {
		cmd.Quit()
	}
}

func pauseToggleSystem(input *Input, cmd *Commands) {
	if !input.JustPressed[KeyP] {
		return
	}
	switch cmd.State() {
	case StatePlaying:
		cmd.ChangeState(StatePaused)
	case StatePaused:
		cmd.ChangeState(StatePlaying)
	}
}

func enterPausedSystem(t *Time, cmd *Commands) {
	pauseTime(t)
	cmd.Logger().Infof("paused")
}

func exitPausedSystem(t *Time, cmd *Commands) {
	resumeTime(t)
	cmd.Logger().Infof("resumed")
}

// whilePlaying binds a system to the playing state when the app has states.
func (app *App) whilePlaying(sched systemScheduleBuilder) systemScheduleBuilder {
	if app.stateful {
		return sched.InState(OnExecute(StatePlaying))
	}
	return sched
}
