package service

import (
	"context"
	"log"
	"time"

	"shelter/internal/redis"
	"shelter/internal/repository"
)

// DashboardStats is the aggregate view shown on the admin dashboard.
type DashboardStats struct {
	Stories            int     `json:"stories"`
	Volunteers         int     `json:"volunteers"`
	Donations          int     `json:"donations"`
	Revenue            float64 `json:"revenue"`
	AnimalsInCare      int     `json:"animals"`
	AdoptionsThisMonth int     `json:"adoptionsThisMonth"`
}

// StatsService assembles dashboard statistics. Each count is best effort: a
// failing source logs and contributes zero instead of failing the dashboard.
type StatsService struct {
	storyRepo     repository.StoryRepository
	volunteerRepo repository.VolunteerRepository
	donationRepo  repository.DonationRepository
	animalRepo    repository.AnimalRepository
	cache         redis.StatsCacheInterface
}

// NewStatsService creates a new StatsService. cache may be nil.
func NewStatsService(
	storyRepo repository.StoryRepository,
	volunteerRepo repository.VolunteerRepository,
	donationRepo repository.DonationRepository,
	animalRepo repository.AnimalRepository,
	cache redis.StatsCacheInterface,
) *StatsService {
	return &StatsService{
		storyRepo:     storyRepo,
		volunteerRepo: volunteerRepo,
		donationRepo:  donationRepo,
		animalRepo:    animalRepo,
		cache:         cache,
	}
}

// Dashboard returns the dashboard statistics, served from cache when fresh.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetDashboard(ctx); err == nil && cached != nil {
			stats := statsFromCache(cached)
			return stats, nil
		}
	}

	stats := &DashboardStats{}

	if count, err := s.storyRepo.CountPublished(ctx); err != nil {
		log.Printf("[STATS] stories count error: %v", err)
	} else {
		stats.Stories = count
	}

	if count, err := s.volunteerRepo.Count(ctx); err != nil {
		log.Printf("[STATS] volunteers count error: %v", err)
	} else {
		stats.Volunteers = count
	}

	if donationStats, err := s.donationRepo.CompletedStats(ctx); err != nil {
		log.Printf("[STATS] donations stats error: %v", err)
	} else {
		stats.Donations = donationStats.Count
		stats.Revenue = donationStats.Revenue
	}

	if count, err := s.animalRepo.CountInCare(ctx); err != nil {
		log.Printf("[STATS] animals count error: %v", err)
	} else {
		stats.AnimalsInCare = count
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	firstOfNextMonth := firstOfMonth.AddDate(0, 1, 0)
	if count, err := s.animalRepo.CountAdoptedBetween(ctx, firstOfMonth, firstOfNextMonth); err != nil {
		log.Printf("[STATS] adoptions count error: %v", err)
	} else {
		stats.AdoptionsThisMonth = count
	}

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, statsToCache(stats)); err != nil {
			log.Printf("[STATS] could not cache dashboard stats: %v", err)
		}
	}

	return stats, nil
}

func statsFromCache(c *redis.CachedDashboard) *DashboardStats {
	return &DashboardStats{
		Stories:            c.Stories,
		Volunteers:         c.Volunteers,
		Donations:          c.Donations,
		Revenue:            c.Revenue,
		AnimalsInCare:      c.AnimalsInCare,
		AdoptionsThisMonth: c.AdoptionsThisMonth,
	}
}

func statsToCache(s *DashboardStats) *redis.CachedDashboard {
	return &redis.CachedDashboard{
		Stories:            s.Stories,
		Volunteers:         s.Volunteers,
		Donations:          s.Donations,
		Revenue:            s.Revenue,
		AnimalsInCare:      s.AnimalsInCare,
		AdoptionsThisMonth: s.AdoptionsThisMonth,
	}
}
