package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"maneuver-server/internal/infrastructure/storage"
	"maneuver-server/pkg/scene"
	"maneuver-server/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	var err error
	switch os.Args[1] {
	case "gen":
		err = runGen(os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	default:
		printHelp()
		return
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	var req scene.PlacementRequest
	fs.IntVar(&req.Width, "ncols", 6, "columns")
	fs.IntVar(&req.Height, "nrows", 4, "rows")
	fs.IntVar(&req.Allies, "allies", 1, "allies")
	fs.IntVar(&req.Goals, "goals", 1, "goals")
	fs.IntVar(&req.Covers, "covers", 1, "covers")
	fs.IntVar(&req.Hostiles, "hostiles", 1, "hostiles")
	seed := fs.Int64("seed", 0, "seed (0 for random)")
	dataDir := fs.String("data", "", "save into <data>/scenes instead of printing")
	name := fs.String("name", "", "record name when saving")
	fs.Parse(args)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	m, err := scene.NewPlacer(utils.NewRand(*seed)).PlaceAll(req)
	if err != nil {
		return err
	}
	text := scene.Render(m)

	if *dataDir == "" {
		fmt.Print(text)
		return nil
	}

	saved, err := storage.NewFileStore(*dataDir).Save(context.Background(), storage.Scenes, text, *name)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s (seed %d)\n", saved, *seed)
	return nil
}

func runCheck(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: scenetool check <scene.txt>")
	}
	m, err := loadFile(args[0])
	if err != nil {
		return err
	}

	counts := m.Counts()
	fmt.Printf("%dx%d", m.Width(), m.Height())
	for _, kind := range scene.PlacementOrder {
		fmt.Printf(" %s=%d", kind, counts[kind])
	}
	fmt.Printf(" %s=%d\n", scene.Empty, counts[scene.Empty])
	return nil
}

func runShow(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: scenetool show <data_dir> <name>")
	}
	data, err := storage.NewFileStore(args[0]).Load(context.Background(), storage.Scenes, args[1])
	if err != nil {
		return err
	}
	fmt.Print(data)
	return nil
}

func loadFile(path string) (*scene.GridMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return scene.Parse(string(b))
}

func printHelp() {
	fmt.Println(`Scene Tool - генерация и проверка сцен без сервера
Commands:
  gen [flags]              - сгенерировать сцену (-ncols -nrows -allies -goals -covers -hostiles -seed -data -name)
  check <scene.txt>        - проверить файл сцены и посчитать объекты
  show <data_dir> <name>   - вывести сохраненную сцену из хранилища`)
}
