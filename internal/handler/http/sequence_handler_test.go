package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	storefrontHttp "github.com/vasiliy-maslov/storefront-service/internal/handler/http"
	"github.com/vasiliy-maslov/storefront-service/internal/sequence"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

func TestSequenceHandler_Routes(t *testing.T) {
	svc := new(MockSequenceService)
	svc.On("GetRecord", mock.Anything, sequence.KindProductCode, "p-seq").
		Return(&sequence.Record{ID: "p-seq", Kind: sequence.KindProductCode, Value: 1000}, nil).Once()
	svc.On("GetRecord", mock.Anything, sequence.KindOrderID, "missing").
		Return(nil, store.ErrNotFound).Once()
	svc.On("SetValue", mock.Anything, sequence.KindOrderID, "o-seq", int64(100001)).
		Return(store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()
	env := newTestEnv(fakeAdmins{}, storefrontHttp.NewSequenceHandler(svc))
	token := env.token(t, "ann@example.com")

	rr := env.do(http.MethodGet, "/productCode/p-seq", "", token)
	requireStatus(t, rr, http.StatusOK)
	var rec sequence.Record
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&rec))
	assert.Equal(t, int64(1000), rec.Value)

	rr = env.do(http.MethodGet, "/orderId/missing", "", token)
	requireStatus(t, rr, http.StatusOK)
	assert.Equal(t, "null", trimmedBody(rr.Body.String()))

	rr = env.do(http.MethodPatch, "/orderId/o-seq", `{"value":100001}`, token)
	requireStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"matchedCount":1,"modifiedCount":1,"upsertedId":null}`, rr.Body.String())

	svc.AssertExpectations(t)
}

func TestSequenceHandler_SetValue_Validation(t *testing.T) {
	svc := new(MockSequenceService)
	env := newTestEnv(fakeAdmins{}, storefrontHttp.NewSequenceHandler(svc))
	token := env.token(t, "ann@example.com")

	for _, body := range []string{`{}`, `{"value":-1}`, `{"value":"ten"}`} {
		rr := env.do(http.MethodPatch, "/productCode/p-seq", body, token)
		requireStatus(t, rr, http.StatusBadRequest)
	}

	rr := env.do(http.MethodGet, "/productCode/p-seq", "", "")
	requireStatus(t, rr, http.StatusUnauthorized)

	svc.AssertNotCalled(t, "SetValue", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "GetRecord", mock.Anything, mock.Anything, mock.Anything)
}
