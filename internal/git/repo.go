package git

import (
	"errors"
	"log/slog"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"git.home.luguber.info/inful/ws/internal/logfields"
)

// DefaultRemote is the remote whose branches are compared against.
const DefaultRemote = "origin"

// State is the local state of one repository.
type State struct {
	// Branch is empty when HEAD is detached.
	Branch string
	Head   string
	Dirty  bool
	// Ahead counts local commits missing from the remote branch of the same
	// name, or -1 when there is no such remote branch.
	Ahead int
}

// ShortHead is the abbreviated HEAD hash.
func (s State) ShortHead() string {
	if len(s.Head) > 8 {
		return s.Head[:8]
	}
	return s.Head
}

// Repo is an opened repository.
type Repo struct {
	path string
	repo *git.Repository
}

// Open opens the repository containing path, looking upwards for .git.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, classify("open", path, err)
	}
	return &Repo{path: path, repo: repo}, nil
}

// Head returns the current branch name (empty when detached) and HEAD hash.
func (r *Repo) Head() (branch, hash string, err error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", "", classify("resolve HEAD", r.path, err)
	}
	if ref.Name().IsBranch() {
		branch = ref.Name().Short()
	}
	return branch, ref.Hash().String(), nil
}

// IsDirty reports whether the worktree has uncommitted or untracked changes.
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, classify("open worktree", r.path, err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, classify("status", r.path, err)
	}
	return !status.IsClean(), nil
}

// Ahead counts the commits reachable from HEAD but not from the remote
// tracking branch remote/branch. It returns -1 when that branch is unknown.
func (r *Repo) Ahead(remote, branch string) (int, error) {
	return r.aheadOf(plumbing.NewRemoteReferenceName(remote, branch))
}

// Unpushed counts the local commits not yet on the remote. The remote branch
// is the one HEAD's branch tracks, else the remote branch of the same name,
// else DefaultRemote/fallback. It returns -1 when none of them exists.
func (r *Repo) Unpushed(fallback string) (int, error) {
	branch, _, err := r.Head()
	if err != nil {
		return 0, err
	}

	var candidates []plumbing.ReferenceName
	if branch != "" {
		cfg, err := r.repo.Config()
		if err != nil {
			return 0, classify("read config", r.path, err)
		}
		if tracked, ok := cfg.Branches[branch]; ok && tracked.Remote != "" && tracked.Merge != "" {
			candidates = append(candidates, plumbing.NewRemoteReferenceName(tracked.Remote, tracked.Merge.Short()))
		}
		candidates = append(candidates, plumbing.NewRemoteReferenceName(DefaultRemote, branch))
	}
	if fallback != "" {
		candidates = append(candidates, plumbing.NewRemoteReferenceName(DefaultRemote, fallback))
	}

	for _, name := range candidates {
		n, err := r.aheadOf(name)
		if err != nil || n >= 0 {
			return n, err
		}
	}
	return -1, nil
}

// aheadOf counts the commits reachable from HEAD but not from the reference
// name, or returns -1 when name does not exist.
func (r *Repo) aheadOf(name plumbing.ReferenceName) (int, error) {
	head, err := r.repo.Head()
	if err != nil {
		return 0, classify("resolve HEAD", r.path, err)
	}
	remoteRef, err := r.repo.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return -1, nil
	}
	if err != nil {
		return 0, classify("resolve remote branch", r.path, err)
	}

	onRemote := make(map[plumbing.Hash]struct{})
	if err := r.walk(remoteRef.Hash(), func(c *object.Commit) error {
		onRemote[c.Hash] = struct{}{}
		return nil
	}); err != nil {
		return 0, err
	}

	ahead := 0
	if err := r.walk(head.Hash(), func(c *object.Commit) error {
		if _, ok := onRemote[c.Hash]; ok {
			return storer.ErrStop
		}
		ahead++
		return nil
	}); err != nil {
		return 0, err
	}
	return ahead, nil
}

func (r *Repo) walk(from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return classify("log", r.path, err)
	}
	defer iter.Close()
	if err := iter.ForEach(fn); err != nil {
		return classify("log", r.path, err)
	}
	return nil
}

// State collects branch, HEAD, dirtiness and the distance to the remote.
func (r *Repo) State() (State, error) {
	branch, hash, err := r.Head()
	if err != nil {
		return State{}, err
	}
	dirty, err := r.IsDirty()
	if err != nil {
		return State{}, err
	}
	ahead := -1
	if branch != "" {
		if ahead, err = r.Ahead(DefaultRemote, branch); err != nil {
			return State{}, err
		}
	}
	slog.Debug("Read repository state",
		logfields.Path(r.path),
		slog.String("branch", branch),
		slog.Bool("dirty", dirty),
		slog.Int("ahead", ahead))
	return State{Branch: branch, Head: hash, Dirty: dirty, Ahead: ahead}, nil
}

// ReadState opens the repository at path and returns its state.
func ReadState(path string) (State, error) {
	repo, err := Open(path)
	if err != nil {
		return State{}, err
	}
	return repo.State()
}
