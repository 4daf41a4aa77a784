package shell

import (
	"fmt"
	"strings"

	"github.com/devconsole/devcon/internal/logging"
)

// Prompt is printed before each command line.
const Prompt = ">: "

// Shell runs the interactive read-dispatch loop for one session.
type Shell struct {
	session  *Session
	registry *Registry
	log      *logging.Logger

	// Banner is printed once before the first prompt, if non-empty.
	Banner string
}

// New creates a shell over a session and a populated registry.
func New(session *Session, registry *Registry, log *logging.Logger) *Shell {
	if log == nil {
		log = logging.Default().Tagged("shell")
	}
	return &Shell{
		session:  session,
		registry: registry,
		log:      log,
	}
}

// Run reads command lines until the transport closes.
func (sh *Shell) Run() error {
	if sh.Banner != "" {
		fmt.Fprintf(sh.session, "%s\r\n", sh.Banner)
	}

	for {
		fmt.Fprint(sh.session, Prompt)

		line, ok := sh.readLine()
		if !ok {
			return nil
		}

		name, args := splitCommand(line)
		if name == "" {
			continue
		}

		entry, found := sh.registry.Lookup(name)
		if !found {
			sh.log.Debug("unknown command %q", name)
			if help, ok := sh.registry.Lookup("help"); ok {
				help.Handler(sh.session, name)
			} else {
				fmt.Fprintf(sh.session, "`%s` command not found\r\n", name)
			}
			continue
		}

		sh.dispatch(entry, args)
	}
}

// readLine collects one command line with echo and minimal editing.
// Returns false when the transport has closed.
func (sh *Shell) readLine() (string, bool) {
	var line []byte
	for {
		b, ok := <-sh.session.keys
		if !ok {
			return "", false
		}

		switch b {
		case keyCR, keyLF:
			fmt.Fprint(sh.session, "\r\n")
			return string(line), true
		case keyEOT:
			// Ctrl+D on an empty line ends the shell; mid-line it is
			// ignored, like a raw-mode terminal.
			if len(line) == 0 {
				fmt.Fprint(sh.session, "\r\n")
				return "", false
			}
		case keyETX:
			// Ctrl+C at the prompt abandons the current line.
			fmt.Fprint(sh.session, "^C\r\n")
			line = line[:0]
			fmt.Fprint(sh.session, Prompt)
		case keyBackspace, keyDelete:
			if len(line) > 0 {
				line = line[:len(line)-1]
				fmt.Fprint(sh.session, "\x08 \x08")
			}
		default:
			if b >= 0x20 && b < 0x7f {
				line = append(line, b)
				sh.session.Write([]byte{b})
			}
		}
	}
}

// dispatch runs one command with an interrupt watcher on the input
// side: any Ctrl+C arriving while the handler runs sets the session's
// cancellation signal, which long-running commands poll.
func (sh *Shell) dispatch(entry Entry, args string) {
	sh.log.Trace("dispatch %q args=%q", entry.Name, args)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case b, ok := <-sh.session.keys:
				if !ok {
					// Transport gone: cancel so the handler unwinds.
					sh.session.Interrupt()
					return
				}
				if b == keyETX {
					sh.session.Interrupt()
				}
			case <-stop:
				return
			}
		}
	}()

	entry.Handler(sh.session, args)

	close(stop)
	<-done
	sh.session.resetInterrupt()
}

// splitCommand separates the command name from its argument string.
func splitCommand(line string) (name, args string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	if i := strings.IndexByte(line, ' '); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}
