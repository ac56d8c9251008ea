package loader

import "github.com/viant/taskos/user"

// Image is a loadable program.
type Image struct {
	Name  string
	Data  []byte
	Entry user.Program
}

// Manifest describes the application table.
type Manifest struct {
	Apps []*App `json:"apps" yaml:"apps"`
}

// App binds an application name to a registered program.
type App struct {
	Name string `json:"name" yaml:"name"`
	// Program names the registered entry point; defaults to Name.
	Program string `json:"program,omitempty" yaml:"program,omitempty"`
	// Data is an optional location of the image bytes.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`
}

func (a *App) program() string {
	if a.Program != "" {
		return a.Program
	}
	return a.Name
}
