package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"
)

// confirmOverwrite asks whether an existing file may be overwritten.
func confirmOverwrite(path string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// overwriteConfirmer returns the confirmation used by init. Without an
// interactive terminal there is nobody to ask, so it returns nil.
func overwriteConfirmer(interactive bool) func(string) (bool, error) {
	if !interactive {
		return nil
	}
	return confirmOverwrite
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
