package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/adjblend/internal/adaptive"
	"github.com/ivlev/adjblend/internal/analyzer"
	"github.com/ivlev/adjblend/internal/blend"
	"github.com/ivlev/adjblend/internal/cache"
	"github.com/ivlev/adjblend/internal/config"
	"github.com/ivlev/adjblend/internal/curve"
	"github.com/ivlev/adjblend/internal/report"
	"github.com/ivlev/adjblend/internal/take"
)

type entityResult struct {
	entity  string
	group   curve.Group
	regions []analyzer.MovementRegion
	phases  []analyzer.ContactPhase
	sliding []int
	settle  []int // per phase, frame where world influence reaches pinThreshold
	travel  int   // frames with root displacement above the motion threshold
}

// World influence level at which a grounded foot counts as pinned.
const pinThreshold = 0.9

func main() {
	os.MkdirAll("input/takes", 0755)
	os.MkdirAll("output", 0755)

	takePtr := flag.String("take", "", "Path to a take YAML file (default: latest file in input/takes/)")
	outputPtr := flag.String("output", "", "Path for the corrected take (default: generated in output/)")
	configPtr := flag.String("config", "", "Path to a config YAML file")
	presetPtr := flag.String("preset", "", "Workflow preset: mocap-cleanup, keyframe-polish, procedural-blend, contact-fix")
	influencePtr := flag.Float64("influence", -1, "Correction influence override (0-2)")
	sensitivityPtr := flag.Float64("sensitivity", -1, "Sliding detection sensitivity override")
	fixPtr := flag.Bool("fix-sliding", false, "Apply foot-sliding correction and write the result")
	chartPtr := flag.String("chart", "", "Write an energy-profile PNG chart to this path")
	chartWidthPtr := flag.Int("chart-width", 1280, "Chart width")
	chartHeightPtr := flag.Int("chart-height", 360, "Chart height")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Parallel analysis workers")
	statsPtr := flag.Bool("stats", false, "Print cache and memory statistics")

	flag.Parse()

	cfg := loadConfig(*configPtr, *presetPtr)
	if *influencePtr >= 0 {
		cfg.Influence = *influencePtr
	}
	if *sensitivityPtr > 0 {
		cfg.Sensitivity = *sensitivityPtr
	}

	takePath := *takePtr
	if takePath == "" {
		latest, err := take.FindLatest("input/takes")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a take YAML into input/takes/", err)
		}
		takePath = latest
		fmt.Printf("[*] Selected take: %s\n", takePath)
	}

	t, err := take.Read(takePath)
	if err != nil {
		log.Fatalf("[-] Failed to load take: %v", err)
	}

	table := t.Table()
	entities := table.Entities()
	if len(entities) == 0 {
		log.Fatalf("[-] Error: take contains no channels")
	}

	fmt.Println("--- [ADJUSTMENT BLENDING: ANALYSIS] ---")
	fmt.Printf("[*] Take: %s | Channels: %d | Entities: %d\n", t.Name, table.Len(), len(entities))
	fmt.Printf("[*] Sensitivity: %.2f | Influence: %.2f | Cache: %v\n", cfg.Sensitivity, cfg.Influence, cfg.CacheEnabled)
	fmt.Println("---------------------------------------")

	analysisCache := buildCache(cfg)
	motion := analyzer.New(analysisCache)

	startTime := time.Now()

	// Analyze every entity that carries a complete x/y/z triple. The
	// core is synchronous; parallelism lives out here with the caller.
	var mu sync.Mutex
	results := []entityResult{}

	g := new(errgroup.Group)
	g.SetLimit(*workersPtr)

	for _, entity := range entities {
		entity := entity
		group, err := table.GroupFor(entity)
		if err != nil {
			fmt.Printf("[!] Skipping %s: %v\n", entity, err)
			continue
		}

		g.Go(func() error {
			curves := group.Curves()
			res := entityResult{
				entity:  entity,
				group:   group,
				regions: motion.DetectMovementRegions(group.Z, cfg.VelocityThreshold, cfg.MinRegionDuration),
				phases:  motion.DetectContactPhases(curves, cfg.GroundThreshold, cfg.StabilityThreshold),
				sliding: motion.DetectFootSliding(curves, cfg.GroundThreshold, cfg.StabilityThreshold, cfg.Sensitivity),
			}
			start, end := group.Z.Range()
			res.settle = adaptive.SettleFrames(res.phases, start, end, adaptive.DefaultBlendSpeed, pinThreshold)
			res.travel = rootTravel(group, start, end)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("[-] Analysis failed: %v", err)
	}

	printReport(results)

	if *fixPtr {
		fixSliding(motion, cfg, results)

		outputPath := *outputPtr
		if outputPath == "" {
			name := strings.ReplaceAll(t.Name, " ", "_")
			if name == "" {
				name = "take"
			}
			timestamp := time.Now().Format("2006-01-02_15-04-05")
			outputPath = filepath.Join("output", fmt.Sprintf("%s_fixed_%s.yaml", name, timestamp))
		}

		corrected := take.FromTable(t.Name, t.FPS, table)
		if err := take.Write(corrected, outputPath); err != nil {
			log.Fatalf("[-] Failed to write corrected take: %v", err)
		}
		fmt.Printf("[+++] Done! Corrected take: %s\n", outputPath)
	}

	if *chartPtr != "" {
		writeChart(motion, table, *chartPtr, *chartWidthPtr, *chartHeightPtr)
	}

	if *statsPtr {
		printStats(analysisCache, time.Since(startTime))
	}
}

func loadConfig(path, preset string) config.Config {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		return cfg
	}
	cfg, err := config.ForPreset(preset)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}
	return cfg
}

func buildCache(cfg config.Config) *cache.AnalysisCache {
	if !cfg.CacheEnabled {
		return nil
	}
	if cfg.CacheSize > 0 {
		bounded, err := cache.NewBounded(cfg.CacheSize)
		if err != nil {
			log.Printf("[!] Bounded cache unavailable (%v), falling back to unbounded", err)
			return cache.New()
		}
		return bounded
	}
	return cache.New()
}

func printReport(results []entityResult) {
	for _, res := range results {
		fmt.Printf("[*] %s: %d movement regions, %d contact phases, %d sliding frames\n",
			res.entity, len(res.regions), len(res.phases), len(res.sliding))

		for _, r := range res.regions {
			fmt.Printf("    region %d-%d: peak %.3f, type %s\n", r.Start, r.End, r.PeakEnergy, r.Type)
		}
		for i, p := range res.phases {
			pinned := "never pins"
			if i < len(res.settle) && res.settle[i] >= 0 {
				pinned = fmt.Sprintf("world-pinned from frame %d", res.settle[i])
			}
			fmt.Printf("    contact %d-%d (%d frames), %s\n", p.Start, p.End, p.Duration(), pinned)
		}
		if res.travel > 0 {
			fmt.Printf("    root motion on %d frames\n", res.travel)
		}
	}
}

// rootTravel counts the frames where the entity's position displaced
// beyond the root-motion threshold. Frames that fail to evaluate are
// skipped.
func rootTravel(group curve.Group, start, end int) int {
	positions := make([][3]float64, 0, end-start+1)
	for f := start; f <= end; f++ {
		x, errX := group.X.Evaluate(float64(f))
		y, errY := group.Y.Evaluate(float64(f))
		z, errZ := group.Z.Evaluate(float64(f))
		if errX != nil || errY != nil || errZ != nil {
			continue
		}
		positions = append(positions, [3]float64{x, y, z})
	}
	return adaptive.NewRootMotionDetector().Travel(positions)
}

func fixSliding(motion *analyzer.Analyzer, cfg config.Config, results []entityResult) {
	engine := blend.NewEngine(motion)
	engine.VelocityThreshold = cfg.VelocityThreshold
	engine.MinRegionDuration = cfg.MinRegionDuration
	engine.EnergyPreservation = cfg.EnergyPreservation

	fixed := 0
	for _, res := range results {
		if len(res.sliding) == 0 {
			continue
		}
		if engine.FixFootSliding(res.group, res.sliding, cfg.Influence, cfg.PreserveMotionFlow) {
			fixed++
			fmt.Printf("[>] Fixed sliding on %s (%d frames)\n", res.entity, len(res.sliding))
		}
	}

	if fixed == 0 {
		fmt.Println("[*] No sliding detected, nothing to fix")
	}
}

func writeChart(motion *analyzer.Analyzer, table *curve.Table, path string, width, height int) {
	curves := []curve.Curve{}
	for _, entity := range table.Entities() {
		group, err := table.GroupFor(entity)
		if err != nil {
			continue
		}
		curves = append(curves, group.Curves()...)
	}

	profile := motion.CalculateEnergyProfile(curves, nil)
	if profile == nil || profile.Len() == 0 {
		fmt.Println("[!] No complete entities to profile, chart skipped")
		return
	}

	if err := report.WriteProfilePNG(profile, width, height, path); err != nil {
		log.Printf("[!] Failed to write chart: %v", err)
		return
	}

	peakFrame, peakEnergy := profile.PeakTotal()
	fmt.Printf("[*] Energy chart: %s (peak %.3f at frame %d)\n", path, peakEnergy, peakFrame)
}

func printStats(analysisCache *cache.AnalysisCache, elapsed time.Duration) {
	fmt.Println("--- [ANALYSIS STATS] ---")
	fmt.Printf("Elapsed: %.2fs\n", elapsed.Seconds())

	if analysisCache != nil {
		stats := analysisCache.Stats()
		fmt.Printf("Cache: %d entries, ~%dKB, %d hits / %d misses\n",
			stats.Entries, stats.ApproxMemory/1024, stats.Hits, stats.Misses)
	} else {
		fmt.Println("Cache: disabled")
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			fmt.Printf("Process RSS: %.1fMB\n", float64(info.RSS)/1024/1024)
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("System memory: %.1f%% used\n", vm.UsedPercent)
	}
	fmt.Println("------------------------")
}
