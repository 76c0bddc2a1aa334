// Copyright (c) 2024 LevelGraph Go Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

// Command hnswdemo builds a Searcher over the in-memory Hamming-distance
// backend and runs an insert/search session from flags, the way the
// levelgraph CLI this package grew out of drives its own storage from a
// handful of subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hnsw "github.com/benbenbenbenbenben/hnswcore"
	"github.com/benbenbenbenbenben/hnswcore/internal/hammingstore"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hnswdemo: failed to init logger: %v\n", err)
		return 1
	}
	defer logger.Sync() //nolint:errcheck

	root := newRootCmd(logger)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}

type session struct {
	store *hammingstore.Eager
	graph *hammingstore.MemGraph[int, int]
	s     *hnsw.Searcher[int, int, int]

	runID  string
	logger *zap.Logger
}

func newSession(logger *zap.Logger, params hnsw.Params, seed int64) (*session, error) {
	store := hammingstore.NewEager()
	graph := hammingstore.NewMemGraph[int, int]()
	s, err := hnsw.New[int, int, int](store, graph, hnsw.NewSeededSource(seed), params)
	if err != nil {
		return nil, fmt.Errorf("hnswdemo: build searcher: %w", err)
	}
	runID := uuid.NewString()
	return &session{
		store:  store,
		graph:  graph,
		s:      s,
		runID:  runID,
		logger: logger.With(zap.String("run_id", runID)),
	}, nil
}

func (sess *session) insert(ctx context.Context, raw uint64) (int, error) {
	query := sess.store.PrepareQuery(raw)
	layer := sess.s.SelectLayer()
	results, err := sess.s.SearchToInsert(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("search to insert: %w", err)
	}
	vector, err := sess.store.Insert(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	if err := sess.s.InsertFromSearchResults(ctx, vector, results, layer); err != nil {
		return 0, fmt.Errorf("insert from search results: %w", err)
	}
	sess.logger.Info("inserted vector",
		zap.Uint64("raw", raw),
		zap.Int("vector_ref", vector),
		zap.Int("layer", layer),
	)
	return vector, nil
}

func (sess *session) search(ctx context.Context, raw uint64) (nearestDist int, isMatch bool, err error) {
	query := sess.store.PrepareQuery(raw)
	layers, err := sess.s.SearchToInsert(ctx, query)
	if err != nil {
		return 0, false, fmt.Errorf("search: %w", err)
	}
	match, err := sess.s.IsMatch(ctx, layers)
	if err != nil {
		return 0, false, fmt.Errorf("is match: %w", err)
	}
	if len(layers) == 0 {
		return 0, false, nil
	}
	nearest, ok := layers[0].GetNearest()
	if !ok {
		return 0, false, nil
	}
	return nearest.Dist, match, nil
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var (
		seed  int64
		ef    int
		m     int
		mmax  int
		mmax0 int
	)

	root := &cobra.Command{
		Use:           "hnswdemo",
		Short:         "Demonstrate the pluggable HNSW core over an in-memory Hamming-distance backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().Int64Var(&seed, "seed", 1, "deterministic layer-assignment seed")
	root.PersistentFlags().IntVar(&ef, "ef", 32, "candidate-list cap")
	root.PersistentFlags().IntVar(&m, "m", 16, "neighbors selected per insert")
	root.PersistentFlags().IntVar(&mmax, "mmax", 16, "degree cap above layer 0")
	root.PersistentFlags().IntVar(&mmax0, "mmax0", 32, "degree cap at layer 0")

	buildSession := func() (*session, error) {
		params, err := hnsw.NewParams(
			hnsw.WithEF(ef),
			hnsw.WithM(m),
			hnsw.WithMmax(mmax),
			hnsw.WithMmax0(mmax0),
		)
		if err != nil {
			return nil, err
		}
		return newSession(logger, params, seed)
	}

	root.AddCommand(newRunCmd(buildSession))
	return root
}

// newRunCmd reads raw uint64 values to insert from the positional args,
// then searches for the last one, printing whether it matched and the
// winning distance. It exists only to exercise the library end-to-end
// from the command line.
func newRunCmd(buildSession func() (*session, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "run <value>...",
		Short: "Insert each value then search for the last one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := buildSession()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			values := make([]uint64, len(args))
			for i, a := range args {
				v, err := strconv.ParseUint(a, 10, 64)
				if err != nil {
					return fmt.Errorf("hnswdemo: invalid value %q: %w", a, err)
				}
				values[i] = v
			}

			for _, v := range values {
				if _, err := sess.insert(ctx, v); err != nil {
					return err
				}
			}

			probe := values[len(values)-1]
			distRef, match, err := sess.search(ctx, probe)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "search %d: nearest hamming distance=%d match=%v\n",
				probe, sess.store.Distance(distRef), match)
			return nil
		},
	}
}
