// ABOUTME: Wiring shared by commands: session store, shell and API clients
// ABOUTME: Built once per invocation from configuration

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/markalston/study-portal/config"
	"github.com/markalston/study-portal/internal/client"
	"github.com/markalston/study-portal/internal/harness"
	"github.com/markalston/study-portal/internal/router"
	"github.com/markalston/study-portal/internal/session"
)

// app holds everything a command needs for one invocation
type app struct {
	cfg      *config.Config
	sess     *session.Session
	shell    *router.Shell
	pages    *router.PageGuard
	notifier client.Notifier
	factory  client.Factory
	closer   io.Closer
}

// newApp opens the session store and builds the canonical client.
// Notices go to notices, typically stderr.
func newApp(notices io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	sess := session.New(store)
	signal := &router.ShowLoginModal
	shell := router.NewShell(router.NewTable(router.DefaultRoutes()), router.NewGuard(sess, signal), signal)
	notifier := client.WriterNotifier{W: notices}

	a := &app{
		cfg:      cfg,
		sess:     sess,
		shell:    shell,
		pages:    router.NewPageGuard(sess, notifier, shell),
		notifier: notifier,
		closer:   closer,
	}

	if _, err := a.factory.Init(a.settings()); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// openStore builds the configured session store
func openStore(cfg *config.Config) (session.Store, io.Closer, error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		return session.NewMemoryStore(), nil, nil
	case config.StoreRedis:
		store, err := session.NewRedisStoreFromURL(cfg.RedisURL, cfg.SessionNamespace, cfg.SessionTTL)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return session.NewFileStore(cfg.SessionFile, cfg.SessionSecret), nil, nil
	}
}

func (a *app) settings() client.Settings {
	return client.Settings{
		BaseURL:    a.cfg.APIURL,
		Timeout:    a.cfg.Timeout,
		AllProxy:   a.cfg.AllProxy,
		Session:    a.sess,
		Notifier:   a.notifier,
		Navigator:  a.shell,
		EntryPoint: router.EntryPoint,
	}
}

// api returns the canonical session-bound client
func (a *app) api() *client.Client {
	return a.factory.Default()
}

// bare returns a client without session coupling
func (a *app) bare() (*client.Client, error) {
	return client.NewBare(a.settings())
}

// credentials returns the harness accounts per role
func (a *app) credentials() map[session.Role]harness.Credentials {
	return map[session.Role]harness.Credentials{
		session.RoleTeacher: {Username: a.cfg.TeacherCredentials.Username, Password: a.cfg.TeacherCredentials.Password},
		session.RoleStudent: {Username: a.cfg.StudentCredentials.Username, Password: a.cfg.StudentCredentials.Password},
	}
}

// Close releases the session store
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// apiExitCode maps canonical client errors to exit codes. Classified
// errors were already reported by the failure handler; anything else is
// printed here.
func apiExitCode(w io.Writer, err error) int {
	switch {
	case client.IsUnauthorized(err):
		return 1
	case client.IsAPIError(err), client.IsTransport(err):
		return 2
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v interface{}) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Fprintln(w, string(data))
}
