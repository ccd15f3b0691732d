package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) plumbing.Hash {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash
}

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo, dir
}

func TestReadState_CleanRepository(t *testing.T) {
	repo, dir := initRepo(t)
	hash := commitFile(t, repo, dir, "Config", "interfaces = (1.0);")

	state, err := ReadState(dir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, head.Name().Short(), state.Branch)
	assert.Equal(t, hash.String(), state.Head)
	assert.Equal(t, hash.String()[:8], state.ShortHead())
	assert.False(t, state.Dirty)
	assert.Equal(t, -1, state.Ahead)
}

func TestReadState_DirtyFromSubdirectory(t *testing.T) {
	repo, dir := initRepo(t)
	commitFile(t, repo, dir, "Config", "interfaces = (1.0);")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "new.go"), []byte("package x"), 0o600))

	state, err := ReadState(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.True(t, state.Dirty)
}

func TestAhead(t *testing.T) {
	repo, dir := initRepo(t)
	first := commitFile(t, repo, dir, "a.txt", "1")
	head, err := repo.Head()
	require.NoError(t, err)
	branch := head.Name().Short()

	remoteRef := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(DefaultRemote, branch), first)
	require.NoError(t, repo.Storer.SetReference(remoteRef))

	commitFile(t, repo, dir, "b.txt", "2")
	commitFile(t, repo, dir, "c.txt", "3")

	r, err := Open(dir)
	require.NoError(t, err)
	ahead, err := r.Ahead(DefaultRemote, branch)
	require.NoError(t, err)
	assert.Equal(t, 2, ahead)

	missing, err := r.Ahead(DefaultRemote, "no-such-branch")
	require.NoError(t, err)
	assert.Equal(t, -1, missing)
}

func TestUnpushed_FallsBackToDefaultBranch(t *testing.T) {
	repo, dir := initRepo(t)
	first := commitFile(t, repo, dir, "a.txt", "1")
	commitFile(t, repo, dir, "b.txt", "2")
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName(DefaultRemote, "mainline"), first)))

	r, err := Open(dir)
	require.NoError(t, err)

	n, err := r.Unpushed("mainline")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = r.Unpushed("")
	require.NoError(t, err)
	assert.Equal(t, -1, n, "no remote branch to compare against")
}

func TestUnpushed_PrefersTrackedBranch(t *testing.T) {
	repo, dir := initRepo(t)
	first := commitFile(t, repo, dir, "a.txt", "1")
	second := commitFile(t, repo, dir, "b.txt", "2")
	commitFile(t, repo, dir, "c.txt", "3")

	head, err := repo.Head()
	require.NoError(t, err)
	branch := head.Name().Short()
	require.NoError(t, repo.CreateBranch(&config.Branch{
		Name:   branch,
		Remote: "upstream",
		Merge:  plumbing.NewBranchReferenceName("release"),
	}))
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName("upstream", "release"), second)))
	require.NoError(t, repo.Storer.SetReference(
		plumbing.NewHashReference(plumbing.NewRemoteReferenceName(DefaultRemote, "mainline"), first)))

	r, err := Open(dir)
	require.NoError(t, err)
	n, err := r.Unpushed("mainline")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.True(t, werrors.IsCategory(err, werrors.CategoryGit))

	var notRepo *NotRepositoryError
	assert.ErrorAs(t, err, &notRepo)
}
