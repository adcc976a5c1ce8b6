package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/persistence/snapshot"
)

func storeFlags(fs *flag.FlagSet) (dataDir, dbPath *string) {
	dataDir = fs.String("data", "./data", "runtime data directory")
	dbPath = fs.String("db", "", "sqlite save db path (default: <data>/saves.sqlite)")
	return
}

func openStore(dataDir, dbPath string) *savestore.SQLiteStore {
	path := strings.TrimSpace(dbPath)
	if path == "" {
		path = filepath.Join(dataDir, "saves.sqlite")
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	st, err := savestore.OpenSQLite(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	return st
}

func savesCmd(args []string) {
	fs := flag.NewFlagSet("saves", flag.ExitOnError)
	dataDir, dbPath := storeFlags(fs)
	_ = fs.Parse(args)

	st := openStore(*dataDir, *dbPath)
	defer st.Close()
	if err := listSaves(context.Background(), st, os.Stdout, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, "saves:", err)
		os.Exit(1)
	}
}

func listSaves(ctx context.Context, st savestore.Store, w io.Writer, now time.Time) error {
	infos, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "no saves")
		return nil
	}
	for _, in := range infos {
		line := fmt.Sprintf("%-20s %9s  saved %s", in.Name, humanize.Bytes(uint64(in.Size)), humanize.RelTime(in.SavedAt, now, "ago", "from now"))
		if rec, err := st.Load(ctx, in.Name); err == nil {
			if h, err := snapshot.PeekHeader(rec.Blob); err == nil {
				line += fmt.Sprintf("  %s, %s, day %d/%d/%d, %s miles", h.Player, h.Mode, h.Month, h.Day, h.Year, humanize.Comma(int64(h.Traveled)))
			}
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func showCmd(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	dataDir, dbPath := storeFlags(fs)
	file := fs.String("file", "", "read a save blob file instead of the store")
	_ = fs.Parse(args)

	var blob []byte
	if *file != "" {
		b, err := os.ReadFile(*file)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		blob = b
	} else {
		if fs.NArg() == 0 {
			fmt.Fprintln(os.Stderr, "usage: admin show [flags] <name>")
			os.Exit(2)
		}
		st := openStore(*dataDir, *dbPath)
		defer st.Close()
		rec, err := st.Load(context.Background(), fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "load:", err)
			os.Exit(1)
		}
		blob = rec.Blob
	}
	if err := showBlob(os.Stdout, blob); err != nil {
		fmt.Fprintln(os.Stderr, "decode:", err)
		os.Exit(1)
	}
}

func showBlob(w io.Writer, blob []byte) error {
	h, snap, err := snapshot.Decode(blob)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"header": h, "state": snap})
}

func deleteCmd(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dataDir, dbPath := storeFlags(fs)
	_ = fs.Parse(args)
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: admin delete [flags] <name>...")
		os.Exit(2)
	}

	st := openStore(*dataDir, *dbPath)
	defer st.Close()
	if err := deleteSaves(context.Background(), st, os.Stdout, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "delete:", err)
		os.Exit(1)
	}
}

func deleteSaves(ctx context.Context, st savestore.Store, w io.Writer, names []string) error {
	var missing []string
	for _, name := range names {
		ok, err := st.Exists(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			missing = append(missing, name)
			continue
		}
		if err := st.Delete(ctx, name); err != nil {
			return err
		}
		n, _ := savestore.Normalize(name)
		fmt.Fprintf(w, "deleted %s\n", n)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", savestore.ErrNotFound, strings.Join(missing, ", "))
	}
	return nil
}

func catalogsCmd(args []string) {
	fs := flag.NewFlagSet("catalogs", flag.ExitOnError)
	dataDir, dbPath := storeFlags(fs)
	_ = fs.Parse(args)

	st := openStore(*dataDir, *dbPath)
	defer st.Close()
	digests, err := st.CatalogDigests(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "catalogs:", err)
		os.Exit(1)
	}
	if len(digests) == 0 {
		fmt.Fprintln(os.Stderr, errors.New("no catalog digests recorded"))
		os.Exit(1)
	}
	names := make([]string, 0, len(digests))
	for n := range digests {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("%-12s %s\n", n, digests[n])
	}
}
