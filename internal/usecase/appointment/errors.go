package appointment

import "github.com/BruksfildServices01/petcare-scheduler/internal/httperr"

// notFoundAt moves a bare not_found onto the request field that named the id.
func notFoundAt(err error, field string) error {
	if httperr.IsBusiness(err, httperr.CodeNotFound) {
		return httperr.Field(httperr.CodeNotFound, field, "")
	}
	return err
}
