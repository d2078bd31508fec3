// common.go
//
// Record-keeping service for the Ramnagar High School mid-day meal programme
// Copyright (c) 2026 Ramnagar High School <mdm@ramnagarhs.edu>
//
// This file is part of mdm-service.
// mdm-service is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mdm-service is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mdm-service.
// If not, see <https://www.gnu.org/licenses/>.

package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/ramnagarhs/mdm-service/internal/middleware"
	"github.com/ramnagarhs/mdm-service/internal/services"
	"github.com/ramnagarhs/mdm-service/internal/utils"
	"gorm.io/gorm"
)

// validate is the shared validator instance for request payloads.
var validate = validator.New()

// parseID reads the numeric :id route parameter.
func parseID(c *fiber.Ctx) (uint64, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// bindJSON parses the request body into dst and runs validation tags.
func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// requireClaims returns the authenticated claims or writes a 401. Routes
// behind the Protected middleware always have claims; this guards direct
// handler reuse.
func requireClaims(c *fiber.Ctx) (*services.Claims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, utils.ErrorResponse(c, fiber.StatusUnauthorized, "Access token required")
	}
	return claims, nil
}

// requireClaimsQuiet returns the authenticated claims or nil, without
// writing a response. Used where the claims only feed the audit trail.
func requireClaimsQuiet(c *fiber.Ctx) *services.Claims {
	return middleware.Claims(c)
}

// recordNotFound maps gorm.ErrRecordNotFound to a 404 and anything else to a
// 500. Returns true if it wrote a response.
func recordNotFound(c *fiber.Ctx, err error, what string) (bool, error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, utils.NotFoundResponse(c, what+" not found")
	}
	return true, utils.ServerErrorResponse(c)
}
