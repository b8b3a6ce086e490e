package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/studioforge/gacha-engine/internal/catalog"
	"github.com/studioforge/gacha-engine/internal/gacha"
	"github.com/studioforge/gacha-engine/internal/pricing"
	"github.com/studioforge/gacha-engine/internal/store"
)

type config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	ConfigDir     string        `env:"CONFIG_DIR" envDefault:"./config"`
	WatchInterval time.Duration `env:"WATCH_INTERVAL" envDefault:"10s"`
}

type server struct {
	loader *catalog.Loader
	state  *store.Store
}

type itemResp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Rarity      string `json:"rarity"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
}

type pullResp struct {
	Item      itemResp `json:"item"`
	Duplicate bool     `json:"duplicate"`
	PityUsed  bool     `json:"pity_used"`
	NewPity   int      `json:"new_pity"`
}

type multiPullResp struct {
	Results []pullResp `json:"results"`
	NewPity int        `json:"new_pity"`
}

type ratesResp struct {
	Pity  int                `json:"pity"`
	Rates map[string]float64 `json:"rates"`
}

type revenueResp struct {
	Banner  string  `json:"banner"`
	Revenue float64 `json:"revenue"`
}

type planResp struct {
	Banner     string       `json:"banner"`
	Pulls      int          `json:"pulls"`
	TargetGems int          `json:"target_gems"`
	Plan       pricing.Plan `json:"plan"`
}

func toItemResp(it gacha.GachaItem) itemResp {
	return itemResp{
		ID:          it.ID,
		Name:        it.Name,
		Rarity:      it.Rarity.String(),
		Kind:        string(it.Kind),
		Description: it.Description,
	}
}

func parseFloat(r *http.Request, key string) (float64, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(r *http.Request, key string) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"err": msg})
}

// rngFrom builds the pull RNG: a seeded source when the caller asks
// for a replayable pull, the crypto source otherwise.
func rngFrom(r *http.Request) gacha.RandomSource {
	s := r.URL.Query().Get("seed")
	if s == "" {
		return gacha.DefaultRNG()
	}
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return gacha.DefaultRNG()
	}
	return gacha.NewSeededRNG(seed)
}

// bannerFor resolves the banner named in the request, writing the
// error response itself when resolution fails.
func (s *server) bannerFor(w http.ResponseWriter, r *http.Request) (catalog.GameConfig, gacha.GachaBanner, bool) {
	game := r.URL.Query().Get("game")
	bannerID := r.URL.Query().Get("banner")
	if game == "" || bannerID == "" {
		writeErr(w, http.StatusBadRequest, "missing param game or banner")
		return catalog.GameConfig{}, gacha.GachaBanner{}, false
	}
	gc, err := s.loader.Game(game)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return catalog.GameConfig{}, gacha.GachaBanner{}, false
	}
	b, ok := gc.Banners[bannerID]
	if !ok {
		writeErr(w, http.StatusNotFound, "unknown banner "+bannerID)
		return catalog.GameConfig{}, gacha.GachaBanner{}, false
	}
	return gc, b, true
}

// resolvePull runs one engine pull for the player and persists the
// outcome.
func (s *server) resolvePull(ctx context.Context, gc catalog.GameConfig, b gacha.GachaBanner, player string, rng gacha.RandomSource) (pullResp, error) {
	pity, err := s.state.Pity(ctx, gc.GameID, player, b.ID)
	if err != nil {
		return pullResp{}, err
	}
	owned, err := s.state.Owned(ctx, gc.GameID, player)
	if err != nil {
		return pullResp{}, err
	}
	res, newPity, err := gacha.SimulatePull(b, gc.Items, pity, owned, rng)
	if err != nil {
		return pullResp{}, err
	}
	if err := s.state.RecordPull(ctx, gc.GameID, player, b.ID, res.Item.ID, newPity); err != nil {
		return pullResp{}, err
	}
	return pullResp{
		Item:      toItemResp(res.Item),
		Duplicate: res.IsDuplicate,
		PityUsed:  res.PityUsed,
		NewPity:   newPity,
	}, nil
}

func (s *server) handlePull(w http.ResponseWriter, r *http.Request) {
	gc, b, ok := s.bannerFor(w, r)
	if !ok {
		return
	}
	player := r.URL.Query().Get("player")
	if player == "" {
		writeErr(w, http.StatusBadRequest, "missing param player")
		return
	}
	if !b.Active(time.Now()) {
		writeErr(w, http.StatusConflict, "banner not active")
		return
	}
	resp, err := s.resolvePull(r.Context(), gc, b, player, rngFrom(r))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handlePullTen repeats the single-pull resolution ten times; there
// are no special batch semantics.
func (s *server) handlePullTen(w http.ResponseWriter, r *http.Request) {
	gc, b, ok := s.bannerFor(w, r)
	if !ok {
		return
	}
	player := r.URL.Query().Get("player")
	if player == "" {
		writeErr(w, http.StatusBadRequest, "missing param player")
		return
	}
	if !b.Active(time.Now()) {
		writeErr(w, http.StatusConflict, "banner not active")
		return
	}
	rng := rngFrom(r)
	out := multiPullResp{Results: make([]pullResp, 0, 10)}
	for i := 0; i < 10; i++ {
		resp, err := s.resolvePull(r.Context(), gc, b, player, rng)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		out.Results = append(out.Results, resp)
		out.NewPity = resp.NewPity
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRates(w http.ResponseWriter, r *http.Request) {
	_, b, ok := s.bannerFor(w, r)
	if !ok {
		return
	}
	pity, ok := parseInt(r, "pity")
	if !ok || pity < 0 || pity >= b.PityCounter {
		writeErr(w, http.StatusBadRequest, "param pity must be in [0, pityCounter)")
		return
	}
	eff := gacha.EffectiveRates(b.Rates, pity, b.PityCounter, b.SoftRamp)
	rates := make(map[string]float64, len(gacha.Rarities))
	for _, rar := range gacha.Rarities {
		rates[rar.String()] = eff[rar]
	}
	writeJSON(w, http.StatusOK, ratesResp{Pity: pity, Rates: rates})
}

func (s *server) handleRevenue(w http.ResponseWriter, r *http.Request) {
	_, b, ok := s.bannerFor(w, r)
	if !ok {
		return
	}
	avgPulls, ok := parseFloat(r, "avg_pulls")
	if !ok {
		writeErr(w, http.StatusBadRequest, "missing/invalid param avg_pulls")
		return
	}
	users, ok := parseInt(r, "users")
	if !ok {
		writeErr(w, http.StatusBadRequest, "missing/invalid param users")
		return
	}
	gemValue, ok := parseFloat(r, "gem_value")
	if !ok {
		writeErr(w, http.StatusBadRequest, "missing/invalid param gem_value")
		return
	}
	writeJSON(w, http.StatusOK, revenueResp{
		Banner:  b.ID,
		Revenue: gacha.BannerRevenue(b, avgPulls, users, gemValue),
	})
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	gc, b, ok := s.bannerFor(w, r)
	if !ok {
		return
	}
	goal := gacha.TrialGoal(r.URL.Query().Get("goal"))
	if goal == "" {
		goal = gacha.GoalFirstLegendary
	}
	trials, ok := parseInt(r, "trials")
	if !ok || trials <= 0 || trials > 100000 {
		writeErr(w, http.StatusBadRequest, "param trials must be in [1, 100000]")
		return
	}
	params := gacha.SimParams{Banner: b, Catalog: gc.Items, Seed: 1}
	if seed, ok := parseInt(r, "seed"); ok && seed >= 0 {
		params.Seed = uint64(seed)
	}
	if sp, ok := parseInt(r, "start_pity"); ok {
		params.StartPity = sp
	}
	var budget *gacha.SimBudget
	if n, ok := parseInt(r, "budget"); ok {
		budget = &gacha.SimBudget{NumPulls: n}
	}
	stats, err := gacha.RunMonteCarlo(params, goal, trials, budget)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handlePlan prices a pull budget against the game's shop: how many
// gems the pulls take and the cheapest pack combination covering them.
// first_time=true assumes every x2-eligible pack is still unclaimed.
func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	gc, b, ok := s.bannerFor(w, r)
	if !ok {
		return
	}
	pulls, ok := parseInt(r, "pulls")
	if !ok || pulls <= 0 || pulls > 10000 {
		writeErr(w, http.StatusBadRequest, "param pulls must be in [1, 10000]")
		return
	}
	if len(gc.Shop.Packs) == 0 {
		writeErr(w, http.StatusNotFound, "no shop configured for game "+gc.GameID)
		return
	}
	pp := pricing.FromPullCost(b.PullCost, gc.PerTenPull)
	target := pp.GemsForPulls(pulls)
	var first pricing.FirstTimeState
	if r.URL.Query().Get("first_time") == "true" {
		first = pricing.FirstTimeState{}
		for _, p := range gc.Shop.Packs {
			if p.FirstTimeX2 {
				first[p.ID] = true
			}
		}
	}
	writeJSON(w, http.StatusOK, planResp{
		Banner:     b.ID,
		Pulls:      pulls,
		TargetGems: target,
		Plan:       pricing.MinCostForGems(gc.Shop, target, first),
	})
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.state.Ping(r.Context()); err != nil {
		writeErr(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	state := store.New(store.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := state.Ping(ctx); err != nil {
		log.Fatalf("connect redis: %v", err)
	}

	loader := catalog.NewLoader(cfg.ConfigDir)
	watcher := catalog.NewFileWatcher(loader.Paths().GamePaths(), cfg.WatchInterval, func(path string) {
		log.Printf("config changed: %s, reloading", path)
		loader.Invalidate()
	})
	watcher.Start()
	defer watcher.Stop()

	srv := &server{loader: loader, state: state}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pull", srv.handlePull)
	mux.HandleFunc("POST /pull10", srv.handlePullTen)
	mux.HandleFunc("GET /rates", srv.handleRates)
	mux.HandleFunc("GET /revenue", srv.handleRevenue)
	mux.HandleFunc("GET /simulate", srv.handleSimulate)
	mux.HandleFunc("GET /plan", srv.handlePlan)
	mux.HandleFunc("GET /healthz", srv.handleHealthz)

	log.Printf("listening on %s ...", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}
