package repository

import (
    "context"
    "fmt"
    "math/rand"
    "testing"

    "github.com/d60-Lab/litreview/internal/model"
    "github.com/d60-Lab/litreview/internal/testutil"
)

func BenchmarkFollowWrite_WithFanIndex(b *testing.B) {
    db := testutil.NewDB(b)
    followRepo := NewFollowRepository(db)
    ctx := context.Background()

    // 预创建部分用户
    users := make([]model.User, 1000)
    for i := range users {
        users[i] = model.User{ID: fmt.Sprintf("u%04d", i), Username: fmt.Sprintf("u%04d", i), Password: "p"}
    }
    if err := db.Create(&users).Error; err != nil {
        b.Fatalf("seed users: %v", err)
    }

    rng := rand.New(rand.NewSource(1))
    b.ResetTimer()
    for i := 0; i < b.N; i++ {
        from := users[rng.Intn(len(users))].ID
        to := users[rng.Intn(len(users))].ID
        if from == to {
            continue
        }
        _ = followRepo.Create(ctx, from, to)
    }
}

func BenchmarkQueryFollowersAndFollowing(b *testing.B) {
    db := testutil.NewDB(b)
    followRepo := NewFollowRepository(db)
    ctx := context.Background()

    // 构造：一个用户 U0 有 N 个粉丝，同时 U0 也关注 N 个用户
    const N = 2000
    for i := 1; i <= N; i++ {
        uid := fmt.Sprintf("u%v", i)
        _ = followRepo.Create(ctx, uid, "u0")  // 关注 u0
        _ = followRepo.Create(ctx, "u0", uid)  // u0 关注别人
    }

    b.ResetTimer()
    b.Run("ListFollowers", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = followRepo.ListFollowerIDs(ctx, "u0")
        }
    })

    b.Run("ListFollowing", func(b *testing.B) {
        for i := 0; i < b.N; i++ {
            _, _ = followRepo.ListFollowingIDs(ctx, "u0")
        }
    })
}
