package services

import (
	"breadstation_server/cart"
	"breadstation_server/database"
	"breadstation_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService     *AuthService
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	CategoryService *CategoryService
	ProductService  *ProductService
	BundleService   *BundleService
	SitemapService  *SitemapService
	ImportService   *ImportService
	DeliveryService *DeliveryService
	CartService     *CartService
	CheckoutService *CheckoutService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	rules := cart.RulesFromConfig(cfg.Store)
	repo := NewCatalogRepository(db)

	authService := NewAuthService(cfg, logger)
	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)

	categoryService := NewCategoryService(logger, repo, repo, cacheService, cfg.Cache.CatalogTTL)
	productService := NewProductService(logger, repo, cacheService, cfg.Cache.CatalogTTL)
	bundleService := NewBundleService(logger, repo, cacheService, cfg.Cache.CatalogTTL)
	sitemapService := NewSitemapService(logger, cfg.Server.PublicURL, repo, repo, repo)
	importService := NewImportService(logger, repo, cacheService)

	mapsClient, err := NewMapsClient(cfg.Maps)
	if err != nil {
		logger.Warn("Address lookup disabled", gecho.Field("error", err))
	} else if mapsClient == nil {
		logger.Warn("GOOGLE_MAPS_API_KEY not set, delivery addresses cannot be resolved")
	}
	deliveryService := NewDeliveryService(logger, mapsClient, cacheService, rules, cfg)

	cartStore := NewRedisCartStore(cacheService, cfg.Encryption.Key, cfg.Cache.CartTTL)
	cartService := NewCartService(logger, cartStore, productService, deliveryService, rules)

	var notifier Notifier
	if emailService.Enabled() {
		notifier = emailService
	}
	checkoutService := NewCheckoutService(logger, cfg.Store, rules, notifier)

	return &ServiceManager{
		AuthService:     authService,
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   healthService,
		CategoryService: categoryService,
		ProductService:  productService,
		BundleService:   bundleService,
		SitemapService:  sitemapService,
		ImportService:   importService,
		DeliveryService: deliveryService,
		CartService:     cartService,
		CheckoutService: checkoutService,
	}
}
