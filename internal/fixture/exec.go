package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/frherrer/mdconform/internal/config"
	"github.com/frherrer/mdconform/internal/domain"
	"github.com/frherrer/mdconform/internal/matcher"
	tmpl "github.com/frherrer/mdconform/internal/template"
)

// ExecBuilder builds fixtures by running an external build command and
// drives them as child processes.
type ExecBuilder struct {
	workDir string
	build   *tmpl.Command
	binary  *tmpl.Command
	runArgs *tmpl.Command
	timeout time.Duration
	blocked []string
	log     *logrus.Logger
}

// NewExecBuilder compiles the command templates of cfg.
func NewExecBuilder(cfg *config.FixtureConfig, log *logrus.Logger) (*ExecBuilder, error) {
	build, err := tmpl.Compile("fixtures.build_command", cfg.BuildCommand)
	if err != nil {
		return nil, err
	}
	binary, err := tmpl.Compile("fixtures.binary", []string{cfg.Binary})
	if err != nil {
		return nil, err
	}
	runArgs, err := tmpl.Compile("fixtures.run_args", cfg.RunArgs)
	if err != nil {
		return nil, err
	}

	var timeout time.Duration
	if cfg.Timeout != "" {
		if timeout, err = time.ParseDuration(cfg.Timeout); err != nil {
			return nil, domain.NewError("config", "", 0, "invalid fixtures.timeout", err)
		}
	}

	return &ExecBuilder{
		workDir: cfg.WorkDir,
		build:   build,
		binary:  binary,
		runArgs: runArgs,
		timeout: timeout,
		blocked: cfg.BlockedPatterns,
		log:     log,
	}, nil
}

func keyData(key Key) tmpl.Data {
	return tmpl.Data{
		Variant:  string(key.Variant),
		Scenario: string(key.Scenario),
		Name:     key.Name(),
	}
}

// Build runs the build command for key and returns a fixture driving the
// rendered binary.
func (b *ExecBuilder) Build(ctx context.Context, key Key) (Fixture, error) {
	data := keyData(key)

	binary, err := b.binary.RenderOne(data)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(binary) && b.workDir != "" {
		binary = filepath.Join(b.workDir, binary)
	}

	args, err := b.build.Render(data)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		if err := ValidateCommand(args, b.blocked); err != nil {
			return nil, domain.NewKindError("build", domain.KindBuildFailure, "build command rejected", err)
		}

		b.log.Debugf("Running build command for %s: %s", key, strings.Join(args, " "))
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Dir = b.workDir
		output, err := cmd.CombinedOutput()
		if err != nil {
			return nil, domain.NewKindError("build", domain.KindBuildFailure,
				fmt.Sprintf("build command failed:\n%s", output), err)
		}
	}

	return &ExecFixture{
		key:     key,
		binary:  binary,
		args:    b.runArgs,
		timeout: b.timeout,
		log:     b.log,
	}, nil
}

// ExecFixture runs a built engine binary once per check. The binary reads
// the input on stdin and prints one event per line on stdout.
type ExecFixture struct {
	key     Key
	binary  string
	args    *tmpl.Command
	timeout time.Duration
	log     *logrus.Logger
}

// Check implements Fixture.
func (f *ExecFixture) Check(ctx context.Context, input []byte, expected []matcher.Matcher, opts CheckOptions) error {
	data := keyData(f.key)
	data.NoScan = opts.NoScan
	args, err := f.args.Render(data)
	if err != nil {
		return err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.binary, args...)
	cmd.Stdin = bytes.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	f.log.Debugf("Running fixture %s: %s %s", f.key, f.binary, strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.NewError("check", "", 0, fmt.Sprintf("fixture %s timed out after %s", f.key, f.timeout), ctx.Err())
		}
		return domain.NewError("check", "", 0,
			fmt.Sprintf("fixture %s exited abnormally: %s", f.key, strings.TrimSpace(stderr.String())), err)
	}

	return matcher.Compare(expected, outputLines(stdout.String()))
}

// outputLines splits fixture output into lines, ignoring the terminator
// after the last line.
func outputLines(out string) []string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
