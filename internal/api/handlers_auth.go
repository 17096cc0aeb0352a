// Steamscope - Steam Library Recommendation Service
// Copyright 2026 Steamscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/steamscope/steamscope

package api

import (
	"net/http"
	"net/url"
	"strings"
)

const (
	steamOpenIDEndpoint = "https://steamcommunity.com/openid/login"
	openIDNamespace     = "http://specs.openid.net/auth/2.0"
	openIDIdentifier    = "http://specs.openid.net/auth/2.0/identifier_select"
	claimedIDPrefix     = "https://steamcommunity.com/openid/id/"
)

// Login handles GET /api/v1/auth/login.
// Redirects the browser to Steam's OpenID endpoint. Steam sends the user
// back to /api/v1/auth/callback with the claimed identity.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	returnTo := strings.TrimSuffix(h.publicURL, "/") + "/api/v1/auth/callback"

	params := url.Values{
		"openid.ns":         {openIDNamespace},
		"openid.mode":       {"checkid_setup"},
		"openid.return_to":  {returnTo},
		"openid.realm":      {strings.TrimSuffix(h.publicURL, "/")},
		"openid.identity":   {openIDIdentifier},
		"openid.claimed_id": {openIDIdentifier},
	}

	http.Redirect(w, r, steamOpenIDEndpoint+"?"+params.Encode(), http.StatusFound)
}

// AuthCallback handles GET /api/v1/auth/callback.
// Extracts the Steam64 ID from the OpenID claimed_id and returns it to
// the client, which uses it for subsequent library and recommendation
// requests.
func (h *Handler) AuthCallback(w http.ResponseWriter, r *http.Request) {
	claimedID := r.URL.Query().Get("openid.claimed_id")
	if claimedID == "" {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Missing openid.claimed_id", nil)
		return
	}

	steamID, ok := steamIDFromClaimedID(claimedID)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "Malformed openid.claimed_id", nil)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]string{
		"steam_id": steamID,
	})
}

// steamIDFromClaimedID extracts the Steam64 ID from a claimed identity
// URL of the form https://steamcommunity.com/openid/id/{steam64}.
func steamIDFromClaimedID(claimedID string) (string, bool) {
	if !strings.HasPrefix(claimedID, claimedIDPrefix) {
		return "", false
	}
	steamID := strings.TrimSuffix(strings.TrimPrefix(claimedID, claimedIDPrefix), "/")
	if !isDigits(steamID) {
		return "", false
	}
	return steamID, true
}
