package repl

import (
	"fmt"
)

func (r *REPL) displayError(err error) {
	r.status.Hide()
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	fmt.Fprint(r.out, r.formatter.FormatWelcome(r.opts.StorePath, r.opts.SchedulerOn))
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r.out, renderHelp(r.opts.Policies))
}

func (r *REPL) displayStatus(msg string) {
	r.status.Show(msg)
}

func (r *REPL) displaySuccess(msg string) {
	r.status.Hide()
	fmt.Fprintln(r.out, r.formatter.FormatSuccess(msg))
	fmt.Fprintln(r.out)
}
