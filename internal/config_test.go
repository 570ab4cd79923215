package internal_test

import (
	"time"

	"github.com/frahmantamala/survey-admin/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func validConfig() internal.Config {
	return internal.Config{
		Env: "development",
		Server: internal.ServerConfig{
			Port:              3001,
			AllowedOrigins:    "http://localhost:3000, https://admin.example.com",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{Driver: "sqlite", Path: "./database.sqlite", MaxOpenConns: 10, MaxIdleConns: 5},
		Security: internal.SecurityConfig{BCryptCost: 10, SessionSecret: "0123456789abcdef0123456789abcdef"},
		Session:  internal.SessionConfig{Store: "memory", CookieName: "sid", TTL: 24 * time.Hour},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		cfg := validConfig()
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Server.Origins()).To(Equal([]string{"http://localhost:3000", "https://admin.example.com"}))
	})

	DescribeTable("rejects",
		func(mutate func(*internal.Config), message string) {
			cfg := validConfig()
			mutate(&cfg)
			Expect(cfg.Validate()).To(MatchError(ContainSubstring(message)))
		},
		Entry("a short session secret", func(c *internal.Config) { c.Security.SessionSecret = "short" }, "session secret"),
		Entry("a wildcard origin", func(c *internal.Config) { c.Server.AllowedOrigins = "*" }, "wildcard"),
		Entry("an origin without scheme", func(c *internal.Config) { c.Server.AllowedOrigins = "localhost:3000" }, "invalid allowed origin"),
		Entry("more idle than open connections", func(c *internal.Config) { c.Database.MaxIdleConns = 20 }, "max_idle_conns"),
		Entry("an unknown driver", func(c *internal.Config) { c.Database.Driver = "mysql" }, "unsupported driver"),
		Entry("postgres without a dsn", func(c *internal.Config) { c.Database.Driver = "postgres" }, "source is required"),
		Entry("an unknown session store", func(c *internal.Config) { c.Session.Store = "file" }, "unsupported session store"),
		Entry("redis without a url", func(c *internal.Config) { c.Session.Store = "redis" }, "redis_url"),
		Entry("a bcrypt cost out of range", func(c *internal.Config) { c.Security.BCryptCost = 20 }, "bcrypt_cost"),
		Entry("a metrics path without slash", func(c *internal.Config) {
			c.Observability.Metrics = internal.MetricsConfig{Enabled: true, Path: "metrics"}
		}, "metrics path"),
	)
})
