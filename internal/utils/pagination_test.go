package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", Pagination{Page: 3, Limit: 10, Offset: 20}},
		{"?page=-1&limit=abc", Pagination{Page: 1, Limit: 20, Offset: 0}},
		{"?limit=5000", Pagination{Page: 1, Limit: 100, Offset: 0}},
	}

	for _, tc := range cases {
		var got Pagination
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			got = ParsePagination(c)
			return nil
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/"+tc.query, nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tc.want, got, tc.query)
	}
}
