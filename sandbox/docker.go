package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/osfs"

	"github.com/kestrelvcs/kestrel/vcs"
)

// DockerExecutor runs sandboxed entry points in a real Docker daemon,
// reached through the engine's standard client configuration
// (DOCKER_HOST and friends), per SPEC_FULL.md §6.
type DockerExecutor struct {
	client *client.Client
	// fs roots the host directory a run's files are materialized into;
	// production code passes osfs.New(tempDir), tests pass memfs.New().
	fs billy.Filesystem
}

// NewDockerExecutor opens a client against the environment's configured
// daemon and roots materialization under hostDir.
func NewDockerExecutor(hostDir string) (*DockerExecutor, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("kestrel: docker client: %w", err)
	}
	return &DockerExecutor{client: cli, fs: osfs.New(hostDir)}, nil
}

// NewDockerExecutorWithFilesystem is NewDockerExecutor with an injected
// filesystem, for tests (memfs.New()) that never touch a real daemon.
func NewDockerExecutorWithFilesystem(cli *client.Client, fs billy.Filesystem) *DockerExecutor {
	return &DockerExecutor{client: cli, fs: fs}
}

// Run implements Executor: materialize engine's working tree onto fs,
// then create and run a container bind-mounting that tree read-only.
func (e *DockerExecutor) Run(ctx context.Context, engine *vcs.Engine, entryPoint string, opts Options) (Result, error) {
	if err := e.materialize(engine); err != nil {
		return Result{}, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := opts.Command
	if cmd == nil {
		name := strings.TrimSuffix(path.Base(entryPoint), ".ts")
		cmd = defaultRunCommand(name)
	}

	env := make([]string, 0, len(opts.Env))
	for k, v := range opts.Env {
		env = append(env, k+"="+v)
	}

	mounts := []string{e.fs.Root() + ":/workspace:ro"}
	if opts.PackageCache != "" {
		mounts = append(mounts, opts.PackageCache+":/cache:ro")
	}

	hostCfg := &container.HostConfig{
		Binds:      mounts,
		AutoRemove: false,
	}
	if opts.MemoryBytes > 0 {
		hostCfg.Resources.Memory = opts.MemoryBytes
	}
	if opts.CPUQuota > 0 {
		hostCfg.Resources.NanoCPUs = opts.CPUQuota
	}

	created, err := e.client.ContainerCreate(ctx, &container.Config{
		Image:      opts.Image,
		Cmd:        cmd,
		Env:        env,
		WorkingDir: "/workspace",
	}, hostCfg, nil, nil, "")
	if err != nil {
		return Result{}, fmt.Errorf("kestrel: container create: %w", err)
	}
	id := created.ID

	if err := e.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return Result{}, fmt.Errorf("kestrel: container start: %w", err)
	}

	statusCh, errCh := e.client.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	var exitCode int
	var timedOut bool
	select {
	case <-ctx.Done():
		timedOut = true
		_ = e.client.ContainerStop(context.Background(), id, container.StopOptions{})
	case err := <-errCh:
		if err != nil {
			if ctx.Err() == nil {
				return Result{}, fmt.Errorf("kestrel: container wait: %w", err)
			}
			timedOut = true
			_ = e.client.ContainerStop(context.Background(), id, container.StopOptions{})
		}
	case status := <-statusCh:
		exitCode = int(status.StatusCode)
	}

	stdout, stderr := e.collectLogs(id)
	result := Result{ExitCode: exitCode, Stdout: stdout, Stderr: stderr, TimedOut: timedOut}
	if timedOut {
		return result, fmt.Errorf("kestrel: sandbox run exceeded %s: %w", timeout, context.DeadlineExceeded)
	}
	return result, nil
}

func (e *DockerExecutor) materialize(engine *vcs.Engine) error {
	for _, f := range engine.GetAllFiles() {
		rel := strings.TrimPrefix(f.Path, engine.Root())
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			continue
		}
		if dir := path.Dir(rel); dir != "." {
			if err := e.fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("kestrel: materialize %q: %w", rel, err)
			}
		}
		out, err := e.fs.Create(rel)
		if err != nil {
			return fmt.Errorf("kestrel: materialize %q: %w", rel, err)
		}
		_, werr := out.Write(f.Content)
		cerr := out.Close()
		if werr != nil {
			return fmt.Errorf("kestrel: materialize %q: %w", rel, werr)
		}
		if cerr != nil {
			return fmt.Errorf("kestrel: materialize %q: %w", rel, cerr)
		}
	}
	return nil
}

func (e *DockerExecutor) collectLogs(id string) (stdout, stderr string) {
	ctx := context.Background()
	out, err := e.client.ContainerLogs(ctx, id, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", ""
	}
	defer out.Close()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, out)
	// Docker multiplexes stdout/stderr over one stream when TTY is off;
	// callers needing the split use stdcopy.StdCopy. The combined text
	// is sufficient for sandboxed compile/run feedback here.
	return buf.String(), ""
}

func defaultRunCommand(name string) []string {
	return []string{"node", "out/" + name + ".js"}
}
