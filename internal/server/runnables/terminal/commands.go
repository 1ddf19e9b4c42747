package terminal

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/scribe/internal/console"
)

type command struct {
	name  string
	usage string
	run   func(r *Runner, arg string) error
}

var commands []command

func init() {
	commands = []command{
		{"run", ":run <file|url>  run a script file, displacing the current run", (*Runner).cmdRun},
		{"exec", ":exec <code>     run code, displacing the current run", (*Runner).cmdExec},
		{"stop", ":stop            abort the current run", (*Runner).cmdStop},
		{"status", ":status          show the slot status", (*Runner).cmdStatus},
		{"suspend", ":suspend         suspend the current run (no effect)", (*Runner).cmdSuspend},
		{"resume", ":resume          resume the current run (no effect)", (*Runner).cmdResume},
		{"help", ":help            list the commands", (*Runner).cmdHelp},
	}
}

// Handle processes one console line.
func (r *Runner) Handle(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	if !strings.HasPrefix(trimmed, ":") {
		if r.echo {
			r.sink.WriteLine(console.SeverityEcho, "> "+line)
		}
		if run := r.ctrl.InjectLine(line); run == nil {
			r.logger.Debug("Console input queued", "queued", r.ctrl.QueueLen())
		}
		return
	}

	name, arg, _ := strings.Cut(trimmed[1:], " ")
	arg = strings.TrimSpace(arg)
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if err := cmd.run(r, arg); err != nil {
			r.sink.WriteLine(console.SeverityError, err.Error())
		}
		return
	}
	r.sink.WriteLine(console.SeverityError, fmt.Sprintf("%s :%s (try :help)", ErrUnknownCommand, name))
}

func (r *Runner) cmdRun(arg string) error {
	if arg == "" {
		return fmt.Errorf("%w: :run needs a file or url", ErrMissingArg)
	}
	code, err := r.readScript(arg)
	if err != nil {
		return err
	}
	run := r.ctrl.Execute(code, true)
	r.sink.WriteLine(console.SeverityStatus, fmt.Sprintf("-- running %s (%s)", arg, run.ID))
	return nil
}

func (r *Runner) cmdExec(arg string) error {
	if arg == "" {
		return fmt.Errorf("%w: :exec needs code", ErrMissingArg)
	}
	r.ctrl.Execute(arg, false)
	return nil
}

func (r *Runner) cmdStop(string) error {
	r.ctrl.Stop()
	return nil
}

func (r *Runner) cmdStatus(string) error {
	r.sink.WriteLine(console.SeverityStatus, r.statusLine())
	return nil
}

func (r *Runner) cmdSuspend(string) error {
	r.ctrl.Suspend()
	return nil
}

func (r *Runner) cmdResume(string) error {
	r.ctrl.Resume()
	return nil
}

func (r *Runner) cmdHelp(string) error {
	for _, cmd := range commands {
		r.sink.WriteLine(console.SeverityStatus, cmd.usage)
	}
	return nil
}

func (r *Runner) statusLine() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- active=%t paused=%t queued=%d", r.ctrl.IsActive(), r.ctrl.IsPaused(), r.ctrl.QueueLen())
	if run := r.ctrl.CurrentRun(); run != nil {
		fmt.Fprintf(&b, " run=%s state=%s", run.ID, run.State())
	}
	return b.String()
}
