package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arloliu/tenseq"
	"github.com/arloliu/tenseq/container"
	"github.com/arloliu/tenseq/format"
	"github.com/urfave/cli/v2"
)

func openOrCreate(create bool, path string) (*container.Writer, error) {
	if create {
		return tenseq.CreateFile(path, nil)
	}
	return tenseq.OpenFileAppend(path)
}

func newCmd_Append() *cli.Command {
	var create bool
	var dtypeFlag string
	var codecFlag string
	var shapeFlag string

	return &cli.Command{
		Name:      "append",
		Usage:     "append one chunk of raw little-endian bytes from a file to a container",
		ArgsUsage: "<container-path> <raw-data-path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "create",
				Usage:       "create the container if it doesn't already exist",
				Destination: &create,
			},
			&cli.StringFlag{
				Name:        "dtype",
				Usage:       "element dtype, e.g. f32, f64, i64",
				Value:       "f32",
				Destination: &dtypeFlag,
			},
			&cli.StringFlag{
				Name:        "codec",
				Usage:       "codec pipeline, e.g. raw, t1d_f32_xor_shuffle, t1d_i64_delta",
				Value:       "raw",
				Destination: &codecFlag,
			},
			&cli.StringFlag{
				Name:        "shape",
				Usage:       "comma-separated logical shape, e.g. 256 or 4,20",
				Required:    true,
				Destination: &shapeFlag,
			},
		},
		Action: func(c *cli.Context) error {
			containerPath := c.Args().Get(0)
			dataPath := c.Args().Get(1)
			if containerPath == "" || dataPath == "" {
				return cli.Exit("append requires <container-path> <raw-data-path>", 1)
			}

			dt, err := format.ParseDtype(dtypeFlag)
			if err != nil {
				return err
			}
			codecTag, err := format.ParseCodec(codecFlag)
			if err != nil {
				return err
			}
			shape, err := parseShape(shapeFlag)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(dataPath)
			if err != nil {
				return err
			}

			needsCreate := false
			if create {
				if _, statErr := os.Stat(containerPath); statErr != nil {
					needsCreate = true
				}
			}

			w, err := openOrCreate(needsCreate, containerPath)
			if err != nil {
				return err
			}
			defer w.Close()

			if err := w.Append(shape, dt, codecTag, raw); err != nil {
				return err
			}
			fmt.Printf("appended 1 chunk (%d bytes) to %s\n", len(raw), containerPath)
			return nil
		},
	}
}

func parseShape(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	shape := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shape dimension %q: %w", p, err)
		}
		shape[i] = v
	}
	return shape, nil
}
