package main

import (
	"fmt"

	"github.com/arloliu/tenseq"
	"github.com/urfave/cli/v2"
)

func newCmd_Inspect() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print a container's chunk table and metadata",
		ArgsUsage: "<container-path>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("inspect requires a container path", 1)
			}

			r, err := tenseq.OpenFileReader(path)
			if err != nil {
				return err
			}
			defer r.Close()

			fmt.Printf("index capacity: %d\n", r.IndexCapacity())
			fmt.Printf("user metadata:  %d bytes\n", len(r.UserMetadata()))
			fmt.Printf("chunks:         %d\n", r.NumChunks())
			fmt.Println()
			fmt.Printf("%-6s %-24s %-8s %-28s %12s %12s\n", "index", "shape", "dtype", "codec", "encoded_size", "decoded_size")
			for i := 0; i < r.NumChunks(); i++ {
				chunk, err := r.GetChunk(i)
				if err != nil {
					return fmt.Errorf("chunk %d: %w", i, err)
				}
				fmt.Printf("%-6d %-24v %-8s %-28s %12d %12d\n", i, chunk.Shape, chunk.Dtype, chunk.Codec, chunk.EncodedSize, len(chunk.Raw))
			}
			return nil
		},
	}
}
