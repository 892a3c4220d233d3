//go:generate mockgen -source=../deal_repository.go  -destination=./mock_deal_repository.go -package=mocks
//go:generate mockgen -source=../deal_cache.go       -destination=./mock_deal_cache.go      -package=mocks
//go:generate mockgen -source=../deal_service.go     -destination=./mock_deal_service.go    -package=mocks
//go:generate mockgen -source=../validator.go        -destination=./mock_validator.go       -package=mocks

package mocks
