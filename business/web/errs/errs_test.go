package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ddknet/node/business/web/errs"
	"github.com/ddknet/node/foundation/blockchain/fault"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestClassify(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
		msgs   int
	}

	tt := []table{
		{"validation", fault.Validation("a", "b"), http.StatusBadRequest, 2},
		{"verification", fmt.Errorf("wrapped: %w", fault.Verification("c")), http.StatusBadRequest, 1},
		{"notfound", fault.NotFound("block", "1"), http.StatusNotFound, 0},
		{"trusted", errs.NewTrusted(errors.New("bad id"), http.StatusConflict), http.StatusConflict, 0},
		{"unknown", errors.New("disk"), http.StatusInternalServerError, 0},
	}

	t.Log("Given the need to map core errors to responses.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling a %s error.", testID, tst.name)
				{
					resp, status := errs.Classify(tst.err)
					if status != tst.status || len(resp.Errors) != tst.msgs {
						t.Fatalf("\t%s\tTest %d:\tShould get status %d: got %d %v", failed, testID, tst.status, status, resp)
					}
					t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
