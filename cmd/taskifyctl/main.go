// taskifyctl inspects and maintains the stored kanban document without
// running the server. It reads the same STORAGE_* settings as the server.
//
//	taskifyctl export [--format json|yaml]
//	taskifyctl import FILE
//	taskifyctl reset
//	taskifyctl info
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/Oloap008/Trello-Clone/internal/config"
	"github.com/Oloap008/Trello-Clone/internal/kvstore"
	"github.com/Oloap008/Trello-Clone/internal/model"
	"github.com/Oloap008/Trello-Clone/internal/repository"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var format string
	var verbose bool

	flagSet := pflag.NewFlagSet("taskifyctl", pflag.ContinueOnError)
	flagSet.StringVarP(&format, "format", "f", "json", "export format: json or yaml")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log storage activity to stderr")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help || flagSet.NArg() == 0 {
		printHelp(flagSet)
		return nil
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, log)
	if err != nil {
		return err
	}
	defer closeStore()

	cmd, rest := flagSet.Arg(0), flagSet.Args()[1:]
	switch cmd {
	case "export":
		return export(store, format)
	case "import":
		if len(rest) != 1 {
			return errors.New("import takes exactly one FILE argument")
		}
		raw, err := os.ReadFile(rest[0])
		if err != nil {
			return err
		}
		if !store.Import(ctx, string(raw)) {
			return fmt.Errorf("%s is not a valid kanban document", rest[0])
		}
		fmt.Println("imported", rest[0])
		return nil
	case "reset":
		store.Reset(ctx)
		fmt.Println("storage reset to seed data")
		return nil
	case "info":
		info := store.StorageInfo()
		fmt.Printf("size: %d bytes (%s KB, %s MB)\n", info.SizeInBytes, info.SizeInKB, info.SizeInMB)
		fmt.Printf("users: %d  boards: %d  lists: %d  cards: %d\n",
			store.Users.Len(), store.Boards.Len(), store.Lists.Len(), store.Cards.Len())
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func export(store *repository.Store, format string) error {
	var out string
	var err error
	switch format {
	case "json":
		out, err = store.Export()
	case "yaml":
		out, err = store.ExportYAML()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func openStore(ctx context.Context, log *slog.Logger) (*repository.Store, func(), error) {
	sc := config.LoadStorage()
	rdb := config.NewRedisClient(ctx)
	backend, err := kvstore.Open(ctx, kvstore.Config{
		Backend: sc.Backend,
		Dir:     sc.Dir,
		DSN:     sc.DSN,
		Prefix:  sc.Prefix,
	}, rdb)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}
	closeAll := func() {
		_ = backend.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}
	store, err := repository.Open(ctx, kvstore.NewValue[model.Document](backend, repository.DocumentKey, log), repository.Options{Logger: log})
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return store, closeAll, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: taskifyctl [flags] COMMAND

Commands:
  export        print the stored document
  import FILE   replace the stored document with FILE
  reset         restore the seed data
  info          print the document size and table counts

Flags:
%s`, flagSet.FlagUsages())
}
