package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"

	werrors "git.home.luguber.info/inful/ws/internal/errors"
)

// NotRepositoryError is returned for a package directory outside any git
// repository.
type NotRepositoryError struct {
	Path string
	Err  error
}

func (e *NotRepositoryError) Error() string {
	return fmt.Sprintf("%s is not a git repository: %v", e.Path, e.Err)
}

func (e *NotRepositoryError) Unwrap() error { return e.Err }

// classify turns go-git failures into workspace errors of the git category.
func classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, git.ErrRepositoryNotExists) {
		err = &NotRepositoryError{Path: path, Err: err}
	}
	return werrors.Wrap(err, werrors.CategoryGit, werrors.SeverityError, "git "+op+" failed").
		WithContext("path", path)
}
