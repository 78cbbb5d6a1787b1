package main

//go:generate swag init -g cmd/tracker/main.go -o docs

// @title           PRA Bet PnL Tracker API
// @version         0.1.0
// @description     Settlement, bankroll reconciliation, and live tracking for PRA prop bets.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
