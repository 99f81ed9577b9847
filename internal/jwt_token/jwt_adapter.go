package jwttoken

import (
	"residentportal/internal/platform/middleware"
)

// JWTServiceAdapter exposes JWTService through the middleware validator
// interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.ResidentClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	residentID, err := claims.ResidentID()
	if err != nil {
		return nil, err
	}
	return &middleware.ResidentClaims{ResidentID: residentID, Name: claims.Name, TokenID: claims.ID}, nil
}
