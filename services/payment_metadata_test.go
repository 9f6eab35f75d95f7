package services_test

import (
	"encoding/json"
	"testing"

	"storefront-backend/models"
	"storefront-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentMetadata_RoundTrip(t *testing.T) {
	userInfo := models.UserInfo{UserID: uuid.New(), Name: "Asha", Email: "asha@example.com", Phone: "9841000000"}
	items := []models.OrderItem{
		{ProductID: uuid.New(), Title: "Trail Runner", Price: 90, Quantity: 2, Image: "https://cdn.example.com/p1.jpg"},
		{ProductID: uuid.New(), Title: "Wool Socks", Price: 12.50, Quantity: 3},
	}
	address := models.ShippingAddress{
		AddressLine1:    "12 Thamel Marg",
		City:            "Kathmandu",
		State:           "Bagmati",
		PostalCode:      "44600",
		Country:         "Nepal",
		OptionalRemarks: "ring twice",
	}
	totals := services.Totals{ItemsPrice: 217.50, ShippingPrice: 170, TaxPrice: 28.28, TotalPrice: 415.78}

	md, err := services.BuildIntentMetadata(userInfo, items, address, totals)
	require.NoError(t, err)

	parsed, err := services.ParsePaymentMetadata(md)
	require.NoError(t, err)

	assert.Equal(t, userInfo, parsed.UserInfo)
	assert.Equal(t, items, parsed.OrderItems)
	assert.Equal(t, address, parsed.ShippingAddress)
	assert.Equal(t, 415.78, parsed.TotalPrice)
}

// The metadata keys and the embedded JSON field names are the wire contract
// with in-flight payment intents; renaming a struct field must not move them.
func TestIntentMetadata_WireFormat(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	md, err := services.BuildIntentMetadata(
		models.UserInfo{UserID: userID, Name: "Asha"},
		[]models.OrderItem{{ProductID: productID, Title: "Trail Runner", Price: 90, Quantity: 2}},
		models.ShippingAddress{AddressLine1: "12 Thamel Marg", City: "Kathmandu"},
		services.Totals{TotalPrice: 373.4},
	)
	require.NoError(t, err)

	assert.Equal(t, "1", md["schemaVersion"])
	assert.Equal(t, "373.40", md["totalPrice"])

	var user map[string]any
	require.NoError(t, json.Unmarshal([]byte(md["userInfo"]), &user))
	assert.Equal(t, userID.String(), user["userId"])

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(md["orderItems"]), &items))
	require.Len(t, items, 1)
	assert.Equal(t, productID.String(), items[0]["product"])
	assert.Equal(t, float64(2), items[0]["quantity"])

	var addr map[string]any
	require.NoError(t, json.Unmarshal([]byte(md["shippingAddress"]), &addr))
	assert.Equal(t, "12 Thamel Marg", addr["address_line1"])
}

func TestParsePaymentMetadata_FailsClosed(t *testing.T) {
	base := func() map[string]string {
		md, err := services.BuildIntentMetadata(
			models.UserInfo{UserID: uuid.New(), Name: "Asha"},
			[]models.OrderItem{{ProductID: uuid.New(), Title: "Trail Runner", Price: 90, Quantity: 2}},
			models.ShippingAddress{AddressLine1: "12 Thamel Marg", City: "Kathmandu"},
			services.Totals{TotalPrice: 373.4},
		)
		require.NoError(t, err)
		return md
	}

	mutations := map[string]func(md map[string]string){
		"missing userInfo":        func(md map[string]string) { delete(md, "userInfo") },
		"missing orderItems":      func(md map[string]string) { delete(md, "orderItems") },
		"missing shippingAddress": func(md map[string]string) { delete(md, "shippingAddress") },
		"missing totalPrice":      func(md map[string]string) { delete(md, "totalPrice") },
		"unsupported version":     func(md map[string]string) { md["schemaVersion"] = "99" },
		"empty items":             func(md map[string]string) { md["orderItems"] = "[]" },
		"zero quantity":           func(md map[string]string) { md["orderItems"] = `[{"product":"` + uuid.NewString() + `","title":"x","price":1,"quantity":0}]` },
		"negative total":          func(md map[string]string) { md["totalPrice"] = "-5" },
		"total not a number":      func(md map[string]string) { md["totalPrice"] = "lots" },
		"anonymous user":          func(md map[string]string) { md["userInfo"] = `{"name":""}` },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			md := base()
			mutate(md)
			_, err := services.ParsePaymentMetadata(md)
			assert.Error(t, err)
		})
	}
}

// Intents created before the version key existed must still parse.
func TestParsePaymentMetadata_MissingVersionAccepted(t *testing.T) {
	md, err := services.BuildIntentMetadata(
		models.UserInfo{UserID: uuid.New(), Name: "Asha"},
		[]models.OrderItem{{ProductID: uuid.New(), Title: "Trail Runner", Price: 90, Quantity: 2}},
		models.ShippingAddress{AddressLine1: "12 Thamel Marg", City: "Kathmandu"},
		services.Totals{TotalPrice: 373.4},
	)
	require.NoError(t, err)
	delete(md, "schemaVersion")

	_, err = services.ParsePaymentMetadata(md)
	assert.NoError(t, err)
}
