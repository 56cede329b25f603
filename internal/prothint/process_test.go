package prothint

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tomasbruna/miniprothint/config"
	"github.com/tomasbruna/miniprothint/internal/align"
)

const testGFF = "##gff-version 3\n" +
	"chr1\tminiprot\tmRNA\t101\t200\t100\t+\t.\tID=MP1;Identity=0.95;qcov=0.9;prot=P1\n" +
	"chr1\tminiprot\tCDS\t101\t200\t.\t+\t0\tParent=MP1;prot=P1\n" +
	"chr1\tminiprot\tmRNA\t151\t200\t95\t+\t.\tID=MP2;Identity=0.9;qcov=0.5;prot=P2\n" +
	"chr1\tminiprot\tCDS\t151\t200\t.\t+\t0\tParent=MP2;prot=P2\n" +
	"chr1\tminiprot\tmRNA\t121\t180\t50\t+\t.\tID=MP3;Identity=0.99;qcov=1;prot=P3\n" +
	"chr1\tminiprot\tCDS\t121\t180\t.\t+\t0\tParent=MP3;prot=P3\n" +
	"chr1\tminiprot\tmRNA\t111\t190\t40\t+\t.\tID=MP4;Identity=0.5;qcov=0.3;prot=P4\n" +
	"chr1\tminiprot\tCDS\t111\t190\t.\t+\t0\tParent=MP4;prot=P4\n" +
	"chr2\tminiprot\tmRNA\t1001\t1100\t10\t-\t.\tID=MP5;Identity=0.8;qcov=1;prot=P5\n" +
	"chr2\tminiprot\tCDS\t1001\t1100\t.\t-\t0\tParent=MP5;prot=P5\n"

func testConfig(threads int) *config.Config {
	return &config.Config{
		Select: config.SelectConfig{
			MinOverlapForChild:        0.01,
			MinScoreFraction:          0.9,
			TopNPerSeed:               10,
			MaxSubLocusParentCoverage: 0.8,
			MinSubLocusCoverage:       0.9,
		},
		Bridge:  config.BridgeConfig{Enter: 0.2, Exit: 0.5},
		Threads: threads,
	}
}

func readTestGFF(t *testing.T) *align.Set {
	set, err := align.Read(strings.NewReader(testGFF))
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func Test_process(t *testing.T) {
	set := readTestGFF(t)

	loci, selected, err := process(context.Background(), set, testConfig(1))
	if err != nil {
		t.Fatal(err)
	}

	if len(loci) != 2 {
		t.Fatalf("%d loci, want 2", len(loci))
	}
	if want := []string{"MP1", "MP2", "MP3", "MP5"}; !reflect.DeepEqual(selected, want) {
		t.Errorf("selected = %v, want %v", selected, want)
	}

	states := map[string]align.State{
		"MP1": align.Seed,
		"MP2": align.Child,
		"MP3": align.Seed,
		"MP4": align.Discarded,
		"MP5": align.Seed,
	}
	for id, want := range states {
		a, _ := set.Get(id)
		if a.State != want {
			t.Errorf("%s is %s, want %s", id, a.State, want)
		}
	}

	for _, l := range loci {
		if len(l.SubLoci()) != 1 {
			t.Errorf("%s has %d sub-loci, want 1", l, len(l.SubLoci()))
		}
	}
}

func Test_process_threads(t *testing.T) {
	states := func(threads int) []string {
		set := readTestGFF(t)
		_, _, err := process(context.Background(), set, testConfig(threads))
		if err != nil {
			t.Fatal(err)
		}

		var got []string
		for _, a := range set.Alignments {
			got = append(got, a.ID+":"+a.State.String()+":"+a.Parent)
		}
		return got
	}

	want := states(1)
	for _, threads := range []int{2, 4, 16} {
		if got := states(threads); !reflect.DeepEqual(got, want) {
			t.Errorf("with %d threads got %v, want %v", threads, got, want)
		}
	}
}

func Test_process_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := process(ctx, readTestGFF(t), testConfig(2))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("process() error = %v, want context.Canceled", err)
	}
}

func Test_selectParams(t *testing.T) {
	c := testConfig(1)
	c.Select.MinSeedCoverage = 0.3
	c.Select.TopNPerSeed = 2

	p := selectParams(c)
	if p.MinSeedCoverage != 0.3 || p.TopNPerSeed != 2 || p.MinScoreFraction != 0.9 {
		t.Errorf("selectParams() = %+v", p)
	}
}
