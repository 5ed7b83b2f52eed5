package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/standings --output domain/standings --outpkg standingsmock --filename store_mock.go
