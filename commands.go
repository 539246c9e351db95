package skyisle

type Commands struct {
	app *App
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

func (cmd *Commands) State() State {
	return cmd.app.state
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

// Quit asks the app to leave through its final state at the end of the frame.
func (cmd *Commands) Quit() {
	cmd.app.quitRequested = true
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
