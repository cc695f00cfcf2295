package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"haven/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second, zap.NewNop())
}

func TestBearerTokenAttachedFromContext(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"id":7}}`))
	})

	ctx := WithToken(context.Background(), "token-123")
	_, err := client.RoomDetail(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-123", gotAuth)
}

func TestRoomDetailParsesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rooms/7", r.URL.Path)
		w.Write([]byte(`{"data":{
			"id":7,"kos_id":3,"name":"Kamar A1",
			"packages":[{"id":21,"duration_code":"1mo","price":1500000,"label":"Rp1.500.000 / bulan"}],
			"availability":"[{\"start_date\":\"2024-06-01\",\"end_date\":\"2024-08-31\"}]"
		}}`))
	})

	room, err := client.RoomDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, room.ID)
	assert.Equal(t, 3, room.KosID)
	require.Len(t, room.Packages, 1)
	assert.Equal(t, models.DurationMonth, room.Packages[0].DurationCode)
	assert.NotEmpty(t, room.Availability)
}

func TestBackendErrorMessageSurfacedVerbatim(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Tanggal check-in tidak tersedia"}`))
	})

	_, err := client.RoomDetail(context.Background(), 7)
	require.Error(t, err)

	var backendErr *ErrBackend
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "Tanggal check-in tidak tersedia", backendErr.Message)
	assert.Equal(t, http.StatusUnprocessableEntity, backendErr.Status)
}

func TestBackendErrorFallsBackToGenericMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>upstream exploded</html>`))
	})

	_, err := client.PaymentChannels(context.Background())
	var backendErr *ErrBackend
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, genericFailure, backendErr.Message)
}

func TestCreateTransactionOrderNumberShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"nested data shape", `{"data":{"no_order":"ORD-7"}}`},
		{"top-level shape", `{"no_order":"ORD-7"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				w.Write([]byte(tt.body))
			})

			orderNumber, err := client.CreateTransaction(context.Background(), models.CreateTransactionRequest{})
			require.NoError(t, err)
			assert.Equal(t, "ORD-7", orderNumber)
		})
	}
}

func TestCreateTransactionMissingOrderNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	})

	_, err := client.CreateTransaction(context.Background(), models.CreateTransactionRequest{})
	require.Error(t, err)
}

func TestUpdateProfileWithDocumentsSendsMultipart(t *testing.T) {
	var gotName, gotCard, gotSelfie string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotName = r.FormValue("name")

		card, _, err := r.FormFile("identity_card")
		require.NoError(t, err)
		raw, err := io.ReadAll(card)
		require.NoError(t, err)
		gotCard = string(raw)

		selfie, _, err := r.FormFile("selfie_with_card")
		require.NoError(t, err)
		raw, err = io.ReadAll(selfie)
		require.NoError(t, err)
		gotSelfie = string(raw)

		w.Write([]byte(`{"data":{"updated":true}}`))
	})

	err := client.UpdateProfileWithDocuments(context.Background(),
		models.ProfileUpdate{Name: "Rizki", Email: "rizki@example.com", Phone: "081234567890"},
		map[string]io.Reader{
			"identity_card":    strings.NewReader("ktp-bytes"),
			"selfie_with_card": strings.NewReader("selfie-bytes"),
		})
	require.NoError(t, err)
	assert.Equal(t, "Rizki", gotName)
	assert.Equal(t, "ktp-bytes", gotCard)
	assert.Equal(t, "selfie-bytes", gotSelfie)
}

func TestCreatePaymentKeepsClientMerchantRef(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"reference":"T123","status":"pending","checkout_url":"https://pay.example/T123"}}`))
	})

	detail, err := client.CreatePayment(context.Background(), models.CreatePaymentRequest{
		MerchantRef: "HVN-1719400000000-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "T123", detail.Reference)
	assert.Equal(t, "HVN-1719400000000-42", detail.MerchantRef)
	assert.Equal(t, models.StatusPending, detail.Status)
}
