package historycmder_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	historycmder "github.com/thermolineco/thermoline/cmd/thermoline/history"
)

var _ = Describe("NewHistoryCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := historycmder.NewHistoryCmd()
		Expect(cmd.Use).To(Equal("history"))
	})

	It("has --server flag with default value", func() {
		cmd := historycmder.NewHistoryCmd()
		flag := cmd.Flags().Lookup("server")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("http://localhost:3000"))
	})
})

var _ = Describe("history against a live feed", func() {
	It("prints readings from the server", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/history"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"temperature": 21.5, "timestamp": "2026-02-01T00:00:00Z"}
			]`))
		}))
		defer server.Close()

		cmd := historycmder.NewHistoryCmd()
		cmd.SetArgs([]string{"--server", server.URL})
		Expect(cmd.Execute()).To(Succeed())
	})

	It("handles an empty history", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		cmd := historycmder.NewHistoryCmd()
		cmd.SetArgs([]string{"--server", server.URL})
		Expect(cmd.Execute()).To(Succeed())
	})
})
