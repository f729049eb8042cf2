package main

import (
    "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/devhire/job-board/internal/config"
    "github.com/devhire/job-board/internal/database"
    "github.com/devhire/job-board/internal/handler"
    "github.com/devhire/job-board/internal/queue"
    "github.com/devhire/job-board/internal/repository"
    "github.com/devhire/job-board/internal/router"
    "github.com/devhire/job-board/internal/service"
    "github.com/devhire/job-board/internal/utils"
)

func main() {
    // .env is optional; real deployments set variables directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient()

    // Refresh revocation prefers Redis so restarts do not resurrect
    // blacklisted tokens. The in-process fallback keeps single-node
    // deployments working without it.
    var revoked service.Blacklist
    if rdb != nil {
        revoked = service.NewRedisBlacklist(rdb)
    } else {
        log.Println("redis unavailable, using in-memory token blacklist")
        revoked = service.NewMemoryBlacklist()
    }

    codec := utils.Codec{
        AccessSecret:  cfg.AccessSecret,
        RefreshSecret: cfg.RefreshSecret,
        Issuer:        cfg.TokenIssuer,
        Audience:      cfg.TokenAudience,
        AccessTTL:     time.Duration(cfg.AccessTTLMin) * time.Minute,
        RefreshTTL:    time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
    }

    users := repository.NewUserRepo(db)
    jobs := repository.NewJobRepo(db)
    apps := repository.NewApplicationRepo(db)
    skills := repository.NewSkillRepo(db)
    docs := repository.NewDocumentRepo(db)
    notifs := repository.NewNotificationRepo(db)
    saved := repository.NewSavedJobRepo(db)
    ownership := repository.NewOwnershipRepo(db)

    tokens := service.NewTokenService(users, codec, revoked)
    tokens.InactivityTimeout = cfg.InactivityTimeout
    recommender := service.NewRecommender(users, jobs, skills, apps)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    jobH := handler.NewJobHandler(jobs)
    appH := handler.NewApplicationHandler(apps, jobs, users)
    skillH := handler.NewSkillHandler(skills)
    docH := handler.NewDocumentHandler(docs)
    notifH := handler.NewNotificationHandler(notifs)
    savedH := handler.NewSavedJobHandler(saved, jobs)
    sortH := handler.NewSortingHandler(recommender)

    go func() {
        if err := queue.StartNotificationConsumer(notifs); err != nil {
            log.Printf("notification consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true

    router.RegisterRoutes(e, jobH)
    router.RegisterAuth(e, authH, tokens, cfg, rdb)
    router.RegisterProfile(e, tokens, cfg, ownership, skillH, docH, notifH, savedH)
    router.RegisterDeveloper(e, tokens, cfg, ownership, appH)
    router.RegisterRecruiter(e, tokens, cfg, ownership, jobH, appH)
    router.RegisterSorting(e, tokens, cfg, ownership, sortH)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
