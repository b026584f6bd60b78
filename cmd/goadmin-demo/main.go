// Command goadmin-demo serves a self-contained admin panel over a SQLite
// database, seeding it with an administrator account and some sample rows.
//
//	goadmin-demo -addr :8080 -db demo.db -password hunter2
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/goadmin/goadmin"
	"github.com/goadmin/goadmin/orms/sqldb"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", "goadmin-demo.db", "sqlite database file")
	configPath := flag.String("config", "", "optional settings JSON file")
	password := flag.String("password", "admin", "password seeded for the admin user")
	flag.Parse()

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("could not open %s: %v", *dbPath, err)
	}
	defer db.Close()

	if err := seed(db, *password); err != nil {
		log.Fatalf("could not seed the database: %v", err)
	}

	settings := goadmin.DefaultSettings()
	if *configPath != "" {
		settings, err = goadmin.LoadSettings(*configPath)
		if err != nil {
			log.Fatalf("could not load settings from %s: %v", *configPath, err)
		}
	}
	settings.SiteName = orDefault(settings.SiteName, "GoAdmin Demo")
	settings.UserModel = "User"

	registry := goadmin.NewRegistry()
	registry.MustRegister(&userAdmin{
		ModelAdmin: sqldb.ModelAdmin{
			BaseModelAdmin: goadmin.BaseModelAdmin{
				Name:         "User",
				ListFields:   []string{"id", "username", "is_active"},
				SearchFields: []string{"username"},
				FilterFields: []string{"is_active"},
				SortableBy:   []string{"id", "username"},
				FormFields:   []string{"username", "is_active"},
				Exclude:      []string{"password_hash"},
				Description:  "Administrators of this demo. Passwords are stored as **bcrypt** hashes.",
			},
			DB:      db,
			Table:   "users",
			Columns: []string{"id", "username", "password_hash", "is_active"},
		},
	})
	registry.MustRegister(&sqldb.ModelAdmin{
		BaseModelAdmin: goadmin.BaseModelAdmin{
			Name:         "Note",
			ListFields:   []string{"id", "title", "created"},
			SearchFields: []string{"title", "body"},
			SortableBy:   []string{"id", "title", "created"},
			FormFields:   []string{"title", "body"},
			Description:  "Free-form notes, to have something to click around in.",
		},
		DB:      db,
		Table:   "notes",
		Columns: []string{"id", "title", "body", "created"},
	})

	app := goadmin.New(settings, registry)
	log.Printf("admin panel on %s (sign in as admin)", *addr)
	log.Fatal(app.Start(*addr))
}

// userAdmin adds credential checking on top of the generic SQL descriptor,
// making it usable as Settings.UserModel.
type userAdmin struct {
	sqldb.ModelAdmin
}

func (u *userAdmin) Authenticate(ctx context.Context, username, password string) (string, error) {
	var id string
	var hash string
	var active bool
	err := u.DB.QueryRowContext(ctx,
		"SELECT id, password_hash, is_active FROM users WHERE username = ?",
		username).Scan(&id, &hash, &active)
	if err != nil || !active || !goadmin.CheckPassword(hash, password) {
		return "", goadmin.ErrUnauthorized
	}
	return id, nil
}

func (u *userAdmin) ChangePassword(ctx context.Context, id, password string) error {
	hash, err := goadmin.HashPassword(password)
	if err != nil {
		return err
	}
	res, err := u.DB.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return goadmin.ErrNotFound
	}
	return nil
}

func seed(db *sql.DB, password string) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1
		);
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`)
	if err != nil {
		return err
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := goadmin.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := db.Exec(
		"INSERT INTO users (username, password_hash) VALUES (?, ?)", "admin", hash); err != nil {
		return err
	}
	_, err = db.Exec(
		"INSERT INTO notes (title, body) VALUES (?, ?), (?, ?)",
		"Welcome", "This demo runs entirely from one SQLite file.",
		"Try the API", "Everything the UI does goes through /api.")
	return err
}

func orDefault(v, def string) string {
	if v == "" || v == goadmin.DefaultSettings().SiteName {
		return def
	}
	return v
}
