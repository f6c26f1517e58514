// Command tinqer is a small CLI that compiles a builder lambda's
// source text to SQL for a chosen dialect and prints the result,
// useful for sanity-checking a builder source without wiring up a
// full program around pkg/tinqer.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/fj1981/tinqer/pkg/tinqer"
	"github.com/fj1981/tinqer/pkg/tqconf"
	"github.com/fj1981/tinqer/pkg/tqlog"
)

var sampleBuilders = map[string]string{
	"select": `func(q Query) any {
		return q.From("users").
			Where(func(u User) bool { return u.Age > 18 && u.Active }).
			OrderBy(func(u User) any { return u.Name }).
			Select(func(u User) any { return map[string]any{"id": u.ID, "name": u.Name} })
	}`,
	"insert": `func(q Query) any {
		return q.Insert("users", map[string]any{"name": "alice", "age": 30}).
			Returning(func(u User) any { return u.ID })
	}`,
	"update": `func(q Query) any {
		return q.Update("users").
			Set(map[string]any{"active": false}).
			Where(func(u User) bool { return u.ID == 1 })
	}`,
	"delete": `func(q Query) any {
		return q.Delete("users").Where(func(u User) bool { return u.Age < 18 })
	}`,
}

func main() {
	dialect := pflag.StringP("dialect", "d", tinqer.DialectPostgres, "target dialect: postgres|sqlite|mysql")
	kind := pflag.StringP("kind", "k", "select", "sample builder to compile: select|insert|update|delete")
	configPath := pflag.StringP("config", "c", "", "optional config file (cache/log settings)")
	pflag.Parse()

	log := tqlog.New(tqlog.WithLevelStr("info"))

	if *configPath != "" {
		cfg, err := tqconf.LoadConfig[tqconf.Settings](tqconf.WithFile(*configPath))
		if err != nil {
			log.Errorf("loading config %s: %v", *configPath, err)
			os.Exit(1)
		}
		tinqer.SetParseCacheConfig(tinqer.ParseCacheConfig{Capacity: cfg.Cache.Capacity, Enabled: cfg.Cache.Enabled})
		log.Infof("applied cache config from %s: capacity=%d enabled=%v", *configPath, cfg.Cache.Capacity, cfg.Cache.Enabled)
	}

	source, ok := sampleBuilders[*kind]
	if !ok {
		log.Errorf("unknown sample kind %q", *kind)
		os.Exit(1)
	}

	var (
		stmt *tinqer.Statement
		err  error
	)
	switch *kind {
	case "insert":
		stmt, err = tinqer.InsertStatement(source, *dialect, nil)
	case "update":
		stmt, err = tinqer.UpdateStatement(source, *dialect, nil)
	case "delete":
		stmt, err = tinqer.DeleteStatement(source, *dialect, nil)
	default:
		stmt, err = tinqer.SelectStatement(source, *dialect, nil)
	}
	if err != nil {
		log.Errorf("compiling %s builder for %s: %v", *kind, *dialect, err)
		os.Exit(1)
	}

	fmt.Println(stmt.SQL)
	for name, value := range stmt.Params {
		fmt.Printf("  %s = %v\n", name, value)
	}
	if len(stmt.ParamOrder) > 0 {
		fmt.Printf("  param order: %v\n", stmt.ParamOrder)
	}
}
