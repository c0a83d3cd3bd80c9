package exec

import (
	"github.com/sabledb/sabledb/dberrors"
)

func asConflict(err error) error {
	if err == nil {
		return nil
	}
	return dberrors.WrapConflictError(err)
}

func asStorage(err error) error {
	if err == nil {
		return nil
	}
	return dberrors.WrapStorageError(err)
}

func cancelled() error { return dberrors.NewCancelledError() }
