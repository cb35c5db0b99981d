package artisan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Generator creates framework artifacts in their default host locations.
type Generator interface {
	MakeModel(ctx context.Context, name string) error
	MakeController(ctx context.Context, name, model string, resource bool) error
	MakeMigration(ctx context.Context, name, path string) error
}

// Autoloader regenerates the host's class autoload map.
type Autoloader interface {
	DumpAutoload(ctx context.Context) error
}

// Output is what a child process printed and how it exited.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes php and composer inside the project directory. It
// implements both Generator and Autoloader.
type Runner struct {
	Dir      string
	PHP      string // defaults to "php"
	Composer string // defaults to "composer"

	// Stdout and Stderr receive the child's output as it runs; nil
	// discards it. Output is captured either way.
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger
}

// ErrToolMissing is wrapped when php or composer cannot be found on PATH.
var ErrToolMissing = errors.New("required tool not found")

// Artisan runs `php artisan <args...>`.
func (r *Runner) Artisan(ctx context.Context, args ...string) (*Output, error) {
	php := r.PHP
	if php == "" {
		php = "php"
	}
	return r.run(ctx, php, append([]string{"artisan"}, args...)...)
}

// MakeModel implements Generator.
func (r *Runner) MakeModel(ctx context.Context, name string) error {
	return r.check(r.Artisan(ctx, "make:model", name, "--no-interaction"))
}

// MakeController implements Generator. model may be empty.
func (r *Runner) MakeController(ctx context.Context, name, model string, resource bool) error {
	args := []string{"make:controller", name, "--no-interaction"}
	if model != "" {
		args = append(args, "--model="+model)
	}
	if resource {
		args = append(args, "--resource")
	}
	return r.check(r.Artisan(ctx, args...))
}

// MakeMigration implements Generator. path is project-relative.
func (r *Runner) MakeMigration(ctx context.Context, name, path string) error {
	return r.check(r.Artisan(ctx, "make:migration", name, "--path="+path, "--no-interaction"))
}

// DumpAutoload implements Autoloader.
func (r *Runner) DumpAutoload(ctx context.Context) error {
	composer := r.Composer
	if composer == "" {
		composer = "composer"
	}
	return r.check(r.run(ctx, composer, "dump-autoload"))
}

func (r *Runner) check(out *Output, err error) error {
	if err != nil {
		return err
	}
	if out.ExitCode != 0 {
		msg := strings.TrimSpace(out.Stderr)
		if msg == "" {
			msg = strings.TrimSpace(out.Stdout)
		}
		return fmt.Errorf("exit status %d: %s", out.ExitCode, msg)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, name string, args ...string) (*Output, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolMissing, name, err)
	}

	if r.Logger != nil {
		r.Logger.Debug("running", "cmd", name, "args", strings.Join(args, " "), "dir", r.Dir)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir
	cmd.Env = os.Environ()

	stdout := r.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = io.MultiWriter(stdout, &stdoutBuf)
	cmd.Stderr = io.MultiWriter(stderr, &stderrBuf)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("running %s: %w", name, err)
	}
	return output, nil
}
