package violationscmder_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	violationscmder "github.com/thermolineco/thermoline/cmd/thermoline/violations"
)

var _ = Describe("NewViolationsCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := violationscmder.NewViolationsCmd()
		Expect(cmd.Use).To(Equal("violations"))
	})

	It("has --cold and --hot flags", func() {
		cmd := violationscmder.NewViolationsCmd()
		Expect(cmd.Flags().Lookup("cold")).NotTo(BeNil())
		Expect(cmd.Flags().Lookup("hot")).NotTo(BeNil())
	})

	It("rejects --cold together with --hot", func() {
		cmd := violationscmder.NewViolationsCmd()
		cmd.SetArgs([]string{"--cold", "--hot"})
		err := cmd.Execute()
		Expect(err).To(MatchError(ContainSubstring("mutually exclusive")))
	})
})

var _ = Describe("violations against a live feed", func() {
	newHistoryServer := func() *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/history"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"temperature": 15.0, "timestamp": "2026-02-01T00:00:00Z"},
				{"temperature": 50.0, "timestamp": "2026-02-01T00:00:01Z"},
				{"temperature": 92.5, "timestamp": "2026-02-01T00:00:02Z"}
			]`))
		}))
	}

	It("lists readings outside the safe range", func() {
		server := newHistoryServer()
		defer server.Close()

		cmd := violationscmder.NewViolationsCmd()
		cmd.SetArgs([]string{"--server", server.URL})
		Expect(cmd.Execute()).To(Succeed())
	})

	It("lists only cold readings with --cold", func() {
		server := newHistoryServer()
		defer server.Close()

		cmd := violationscmder.NewViolationsCmd()
		cmd.SetArgs([]string{"--server", server.URL, "--cold"})
		Expect(cmd.Execute()).To(Succeed())
	})
})
