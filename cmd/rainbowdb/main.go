package main

import (
	"bufio"
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chainforge/rainbowdb"
	"github.com/chainforge/rainbowdb/internal/attack"
	"github.com/chainforge/rainbowdb/internal/bench"
	"github.com/chainforge/rainbowdb/internal/cliconfig"
	"github.com/chainforge/rainbowdb/pkg/chain"
	"github.com/chainforge/rainbowdb/pkg/hashreg"
	"github.com/chainforge/rainbowdb/pkg/logging"
	"github.com/chainforge/rainbowdb/pkg/passcheck"
	"github.com/chainforge/rainbowdb/pkg/plainspace"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "crack":
		err = runCrack(os.Args[2:])
	case "brute":
		err = runBrute(os.Args[2:])
	case "dict":
		err = runDict(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: rainbowdb <command> [flags]")
	fmt.Println("Commands:")
	fmt.Println("  build   build a rainbow table from seeds and save it")
	fmt.Println("  crack   invert hex hashes from stdin against a saved table")
	fmt.Println("  brute   brute-force one hash over the whole plaintext space")
	fmt.Println("  dict    run a wordlist attack against one hash")
	fmt.Println("  bench   measure build and lookup cost of a table shape")
	fmt.Println("  check   score password strength")
	fmt.Println("  info    describe a saved table")
}

// printHooks traces every hash and reduce call, for demonstrations with
// tiny tables.
func printHooks() chain.Hooks {
	return chain.Hooks{
		OnHash: func(plaintext, digest []byte) {
			fmt.Printf("hash   %q -> %x\n", plaintext, digest)
		},
		OnReduce: func(digest, plaintext []byte, position uint64) {
			fmt.Printf("reduce %x -[%d]-> %q\n", digest, position, plaintext)
		},
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	charset := fs.String("charset", "", "plaintext character set")
	maxLen := fs.Int("max-len", -1, "maximum plaintext length")
	chainLen := fs.Int("chain-len", 0, "hash/reduce steps per chain")
	algorithm := fs.String("algorithm", "", "hash algorithm")
	random := fs.Int("random", 0, "number of random seeds (otherwise seeds come from stdin)")
	seedKey := fs.String("seed-key", "", "hex 32-byte key for reproducible random seeds")
	file := fs.String("file", "", "table file to write")
	salted := fs.Bool("salted", false, "use position-salted reduction")
	printSteps := fs.Bool("print-steps", false, "trace every hash/reduce step")
	verbose := fs.Bool("verbose", false, "debug logging")
	fs.Parse(args)

	conf, err := engineConfig(*configPath, *charset, *maxLen, *chainLen, *algorithm, *verbose)
	if err != nil {
		return err
	}
	conf.PositionSalted = *salted
	if *printSteps {
		conf.Hooks = printHooks()
	}

	table, err := rainbowdb.New(conf)
	if err != nil {
		return err
	}
	defer table.Close()

	switch {
	case *seedKey != "":
		key, err := hex.DecodeString(*seedKey)
		if err != nil {
			return fmt.Errorf("parse seed key: %w", err)
		}
		if *random <= 0 {
			return fmt.Errorf("-seed-key requires -random")
		}
		if err := table.BuildDeterministic(key, *random); err != nil {
			return err
		}
	case *random > 0:
		if err := table.BuildRandom(*random); err != nil {
			return err
		}
	default:
		fmt.Println("Enter seeds (one per line), press Ctrl+D (EOF) to finish:")
		var seeds [][]byte
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r\n")
			seeds = append(seeds, []byte(line))
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read seeds: %w", err)
		}
		if err := table.Build(seeds); err != nil {
			return err
		}
	}

	if *file == "" {
		fmt.Printf("Rainbow table built in memory with %d chains (no -file given, not saved).\n", table.Len())
		return nil
	}

	out, err := os.Create(*file)
	if err != nil {
		return fmt.Errorf("create table file: %w", err)
	}
	defer out.Close()
	if err := table.Save(out); err != nil {
		return err
	}
	fmt.Printf("Rainbow table with %d chains saved to %s\n", table.Len(), *file)
	return nil
}

func runCrack(args []string) error {
	fs := flag.NewFlagSet("crack", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml")
	file := fs.String("file", "", "table file to load")
	algorithm := fs.String("algorithm", "", "hash algorithm the table was built with")
	naive := fs.Bool("naive", false, "use the position-naive lookup")
	printSteps := fs.Bool("print-steps", false, "trace every hash/reduce step")
	verbose := fs.Bool("verbose", false, "debug logging")
	fs.Parse(args)

	fileConf, err := cliconfig.Load(*configPath)
	if err != nil {
		return err
	}
	if *file == "" {
		*file = fileConf.TableFile
	}
	if *file == "" {
		return fmt.Errorf("a table file is required (-file)")
	}
	if *algorithm == "" {
		*algorithm = fileConf.Algorithm
	}
	hash, err := hashreg.Get(*algorithm)
	if err != nil {
		return err
	}

	in, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open table file: %w", err)
	}
	defer in.Close()

	conf := rainbowdb.Config{
		Hash:        chain.HashFunc(hash),
		Workers:     fileConf.Workers,
		StorePath:   fileConf.StorePath,
		StoreLogger: logging.Store(*verbose),
		Logger:      logging.New(*verbose),
	}
	if *printSteps {
		conf.Hooks = printHooks()
	}

	table, err := rainbowdb.Load(in, conf)
	if err != nil {
		return err
	}
	defer table.Close()
	fmt.Printf("Rainbow table loaded from %s with %d chains.\n", *file, table.Len())

	lookup := table.Lookup
	if *naive {
		lookup = table.LookupNaive
	}

	fmt.Println("Enter hex hashes to crack (one per line), press Ctrl+D (EOF) to finish:")
	cracked, total := 0, 0
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		total++

		target, err := hex.DecodeString(line)
		if err != nil {
			fmt.Printf("Invalid hex hash: %s\n", line)
			continue
		}

		plaintext, found, err := lookup(target)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", line, err)
		}
		if found {
			fmt.Printf("Cracked %s: %s\n", line, plaintext)
			cracked++
		} else {
			fmt.Printf("Failed to crack %s\n", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read hashes: %w", err)
	}

	fmt.Printf("\nCracked %d out of %d provided hashes.\n", cracked, total)
	return nil
}

func runBrute(args []string) error {
	fs := flag.NewFlagSet("brute", flag.ExitOnError)
	charset := fs.String("charset", "abcdefghijklmnopqrstuvwxyz", "plaintext character set")
	maxLen := fs.Int("max-len", 4, "maximum plaintext length")
	algorithm := fs.String("algorithm", "sha1", "hash algorithm")
	target := fs.String("hash", "", "hex digest to invert")
	salt := fs.String("salt", "", "salt prepended to every candidate")
	fs.Parse(args)

	digest, err := hex.DecodeString(*target)
	if err != nil || len(digest) == 0 {
		return fmt.Errorf("a hex digest is required (-hash)")
	}
	hash, err := hashreg.Get(*algorithm)
	if err != nil {
		return err
	}
	space, err := plainspace.New([]byte(*charset), *maxLen)
	if err != nil {
		return err
	}

	plaintext, found, err := attack.BruteForce(context.Background(), space, chain.HashFunc(hash), digest, []byte(*salt))
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("Password not found (tried all %d candidates).\n", space.Total())
		return nil
	}
	fmt.Printf("Password found: %q\n", plaintext)
	return nil
}

func runDict(args []string) error {
	fs := flag.NewFlagSet("dict", flag.ExitOnError)
	wordlist := fs.String("wordlist", "wordlist.txt", "wordlist file, one candidate per line")
	algorithm := fs.String("algorithm", "sha1", "hash algorithm")
	target := fs.String("hash", "", "hex digest to invert")
	salt := fs.String("salt", "", "salt prepended to every candidate")
	fs.Parse(args)

	digest, err := hex.DecodeString(*target)
	if err != nil || len(digest) == 0 {
		return fmt.Errorf("a hex digest is required (-hash)")
	}
	hash, err := hashreg.Get(*algorithm)
	if err != nil {
		return err
	}

	f, err := os.Open(*wordlist)
	if err != nil {
		return fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	word, found, err := attack.Dictionary(context.Background(), f, hash, digest, []byte(*salt))
	if err != nil {
		return err
	}
	if !found {
		fmt.Printf("Password not found in %s.\n", *wordlist)
		return nil
	}
	fmt.Printf("Password found: %q\n", word)
	return nil
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	charset := fs.String("charset", "abcdefghijklmnopqrstuvwxyz", "plaintext character set")
	maxLen := fs.Int("max-len", 3, "maximum plaintext length")
	chainLen := fs.Int("chain-len", 10, "hash/reduce steps per chain")
	algorithm := fs.String("algorithm", "sha1", "hash algorithm")
	seeds := fs.Int("seeds", 2000, "number of random seeds")
	samples := fs.Int("samples", 1000, "number of Monte Carlo lookups")
	salted := fs.Bool("salted", false, "use position-salted reduction")
	fs.Parse(args)

	hash, err := hashreg.Get(*algorithm)
	if err != nil {
		return err
	}

	conf := rainbowdb.Config{
		Alphabet:       []byte(*charset),
		MaxLen:         *maxLen,
		ChainLen:       *chainLen,
		Hash:           chain.HashFunc(hash),
		PositionSalted: *salted,
		Logger:         slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}

	res, err := bench.Run(conf, bench.Options{Seeds: *seeds, Samples: *samples})
	if err != nil {
		return err
	}

	fmt.Printf("build:   %d chains in %v (%d hash, %d reduce calls)\n",
		res.Chains, res.BuildTime, res.BuildHash, res.BuildReduce)
	fmt.Printf("lookup:  %d samples in %v, %d hits (%.1f%% success, %d hash, %d reduce calls)\n",
		res.Lookups, res.LookupTime, res.Hits, 100*res.HitRate(), res.LookupHash, res.LookupReduce)
	fmt.Printf("memory:  %.1f MB in use\n", res.UsedMemMB)
	return nil
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	password := fs.String("password", "", "password to score")
	wordlist := fs.String("wordlist", "wordlist.txt", "wordlist of common passwords")
	fs.Parse(args)

	if *password == "" {
		return fmt.Errorf("a password is required (-password)")
	}

	list, err := passcheck.LoadWordlist(*wordlist)
	if err != nil {
		return fmt.Errorf("load wordlist: %w", err)
	}

	strength, reason := passcheck.Check(*password, list)
	fmt.Printf("%s: %s\n", strength, reason)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	file := fs.String("file", "", "table file to describe")
	algorithm := fs.String("algorithm", "sha1", "hash algorithm (loading needs one)")
	fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("a table file is required (-file)")
	}
	hash, err := hashreg.Get(*algorithm)
	if err != nil {
		return err
	}

	in, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open table file: %w", err)
	}
	defer in.Close()

	table, err := rainbowdb.Load(in, rainbowdb.Config{
		Hash:   chain.HashFunc(hash),
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	})
	if err != nil {
		return err
	}
	defer table.Close()

	space := table.Space()
	fmt.Printf("file:      %s\n", *file)
	fmt.Printf("alphabet:  %q\n", space.Alphabet())
	fmt.Printf("max len:   %d\n", space.MaxLen())
	fmt.Printf("space:     %d plaintexts\n", space.Total())
	fmt.Printf("chain len: %d\n", table.ChainLen())
	fmt.Printf("reduction: position-%s\n", map[bool]string{true: "salted", false: "blind"}[table.PositionSalted()])
	fmt.Printf("chains:    %d\n", table.Len())
	return nil
}

// engineConfig merges the YAML config file with build-flag overrides into
// an engine configuration.
func engineConfig(configPath, charset string, maxLen, chainLen int, algorithm string, verbose bool) (rainbowdb.Config, error) {
	fileConf, err := cliconfig.Load(configPath)
	if err != nil {
		return rainbowdb.Config{}, err
	}

	if charset == "" {
		charset = fileConf.Charset
	}
	if maxLen < 0 {
		maxLen = fileConf.MaxLen
	}
	if chainLen <= 0 {
		chainLen = fileConf.ChainLen
	}
	if algorithm == "" {
		algorithm = fileConf.Algorithm
	}

	hash, err := hashreg.Get(algorithm)
	if err != nil {
		return rainbowdb.Config{}, err
	}

	return rainbowdb.Config{
		Alphabet:    []byte(charset),
		MaxLen:      maxLen,
		ChainLen:    chainLen,
		Hash:        chain.HashFunc(hash),
		Workers:     fileConf.Workers,
		StorePath:   fileConf.StorePath,
		StoreLogger: logging.Store(verbose),
		Logger:      logging.New(verbose),
	}, nil
}
