package main

import (
    "context"
    "fmt"
    "math"
    "math/rand"
    "os"
    "sort"
    "strconv"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/d60-Lab/litreview/config"
    "github.com/d60-Lab/litreview/internal/app"
    "github.com/d60-Lab/litreview/internal/model"
    "github.com/d60-Lab/litreview/internal/service"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func envInt(key string, def int) int {
    if s := os.Getenv(key); s != "" {
        if v, err := strconv.Atoi(s); err == nil && v > 0 { return v }
    }
    return def
}

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

func main() {
    cfg := must(config.Load())
    ctx := context.Background()
    a := must(app.New(ctx, cfg))
    defer a.Close()

    // params
    USERS := envInt("USERS", 500)     // seeded users
    FOLLOWS := envInt("FOLLOWS", 50)  // follows per user
    TICKETS := envInt("TICKETS", 5)   // tickets per user
    REVIEWS := envInt("REVIEWS", 5)   // reviews per user
    QUERIES := envInt("QUERIES", 1000) // feed reads
    CONC := envInt("CONC", 8)
    if FOLLOWS >= USERS { FOLLOWS = USERS - 1 }

    rng := rand.New(rand.NewSource(42))
    run := uuid.New().String()[:8]

    // seed users
    users := make([]model.User, USERS)
    for i := range users {
        id := uuid.New().String()
        users[i] = model.User{ID: id, Username: fmt.Sprintf("bench-%s-%d", run, i), Password: "p"}
    }
    if err := a.DB.CreateInBatches(&users, 1000).Error; err != nil { panic(err) }

    // follow graph through the service so the configured backend is exercised
    t0 := time.Now()
    for i := range users {
        for _, j := range rng.Perm(USERS)[:FOLLOWS+1] {
            if j == i { continue }
            _, _ = a.Relations.Follow(ctx, users[i].ID, users[j].Username)
        }
    }
    followDur := time.Since(t0)

    // content
    var tickets []*model.Ticket
    t1 := time.Now()
    for i := range users {
        for k := 0; k < TICKETS; k++ {
            tk := must(a.Content.CreateTicket(ctx, users[i].ID, service.TicketInput{Title: fmt.Sprintf("ticket %d/%d", i, k)}))
            tickets = append(tickets, tk)
        }
    }
    for i := range users {
        for k := 0; k < REVIEWS && len(tickets) > 0; k++ {
            tk := tickets[rng.Intn(len(tickets))]
            rating := rng.Intn(model.MaxRating + 1)
            _, _ = a.Content.CreateReview(ctx, users[i].ID, tk.ID, service.ReviewInput{Rating: &rating, Headline: "bench"})
        }
    }
    contentDur := time.Since(t1)

    // feed reads with CONC workers
    jobs := make(chan string, QUERIES)
    for q := 0; q < QUERIES; q++ { jobs <- users[rng.Intn(USERS)].ID }
    close(jobs)

    var mu sync.Mutex
    lat := make([]time.Duration, 0, QUERIES)
    items := 0
    var wg sync.WaitGroup
    t2 := time.Now()
    for w := 0; w < CONC; w++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            for uid := range jobs {
                st := time.Now()
                feed, err := a.Feed.GetFeed(ctx, uid)
                d := time.Since(st)
                if err != nil { panic(err) }
                mu.Lock()
                lat = append(lat, d)
                items += len(feed)
                mu.Unlock()
            }
        }()
    }
    wg.Wait()
    readDur := time.Since(t2)

    fmt.Printf("backend=%s USERS=%d FOLLOWS=%d TICKETS=%d REVIEWS=%d QUERIES=%d CONC=%d\n",
        cfg.Relation.Backend, USERS, FOLLOWS, TICKETS, REVIEWS, QUERIES, CONC)
    fmt.Printf("Seed follows: %v, content: %v\n", followDur, contentDur)
    fmt.Printf("Feed reads total: %v, qps: %.1f, avg items: %.1f\n",
        readDur, float64(QUERIES)/readDur.Seconds(), float64(items)/float64(QUERIES))
    fmt.Printf("Feed latency p50: %v, p95: %v, p99: %v\n", pct(lat, 0.50), pct(lat, 0.95), pct(lat, 0.99))
}
