package main

import (
	"shopease/internal/handler"
	infraRepo "shopease/internal/infra/repository"
	"shopease/internal/infra/storage"
	"shopease/internal/infra/token"
	"shopease/internal/middleware"
	"shopease/internal/server"
	"shopease/internal/usecase"
	auth "shopease/internal/usecase/auth_usecase"
)

// buildServer assembles repositories, usecases and handlers.
func buildServer(e *env, store *storage.Storage) *server.Server {
	cfg, logger := e.cfg, e.logger

	//Repository
	userRepo := infraRepo.NewUserGormRepository(e.db)
	productRepo := infraRepo.NewProductGormRepository(e.db)
	orderRepo := infraRepo.NewOrderGormRepository(e.db)
	cartRepo := infraRepo.NewCartGormRepository(e.db)
	addressRepo := infraRepo.NewAddressGormRepository(e.db)
	activityRepo := infraRepo.NewActivityGormRepository(e.db)
	txManager := infraRepo.NewTxManagerGorm(e.db)

	//auth parts
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()
	clock := auth.SystemClock{}
	recorder := usecase.NewActivityRecorder(activityRepo, logger)
	bootstrap := auth.NewAdminBootstrap(userRepo, hasher, verifier, clock, cfg.AdminEmail, cfg.AdminPassword)

	//Usecase
	registerUC := auth.NewRegisterUserUsecase(userRepo, hasher, clock, recorder)
	loginUC := auth.NewLoginUsecase(userRepo, verifier, issuer, bootstrap, clock, logger)
	sessionUC := usecase.NewSessionUsecase(userRepo, issuer)
	userUC := usecase.NewUserUsecase(userRepo)
	shopkeeperUC := usecase.NewShopkeeperUsecase(userRepo, store, logger, cfg.MaxUploadBytes)
	productUC := usecase.NewProductUsecase(productRepo, store, recorder, logger, cfg.MaxUploadBytes)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, addressRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(orderRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	adminUC := usecase.NewAdminUsecase(userRepo, productRepo, orderRepo, activityRepo, store, logger)

	//Middleware
	cookies := middleware.CookieOptions{Secure: cfg.SecureCookies()}
	guards := handler.Guards{
		Auth:      middleware.Authenticate(issuer, userRepo, cookies, logger),
		Admin:     middleware.RequireAdmin(),
		Seller:    middleware.RequireAdminOrApprovedShopkeeper(),
		RateLimit: middleware.IPRateLimit(cfg.AuthRateLimit),
	}

	//Handler
	handlers := server.Handlers{
		Auth:    handler.NewAuthHandler(registerUC, loginUC, sessionUC, cookies),
		User:    handler.NewUserHandler(userUC, shopkeeperUC),
		Product: handler.NewProductHandler(productUC),
		Order:   handler.NewOrderHandler(orderUC, adminOrderUC),
		Cart:    handler.NewCartHandler(cartUC),
		Address: handler.NewAddressHandler(addressUC),
		Admin:   handler.NewAdminHandler(adminUC, adminOrderUC, productUC),
	}

	return server.New(cfg, logger, handlers, guards)
}
