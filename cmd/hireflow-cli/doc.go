// Package main provides the entry point for hireflow-cli.
//
// hireflow-cli is the job seeker client of the HireFlow platform. It talks
// to the user, profile and job services:
//
//   - Sign in with an SMS code or a password, register, sign out
//   - Edit the profile and its skills
//   - Search jobs, apply, and track applications
//
// Usage:
//
//	hireflow-cli auth otp send --phone +14155550100
//	hireflow-cli auth otp verify --phone +14155550100 --code 123456
//	hireflow-cli -o json jobs list --query golang
//	hireflow-cli shell --metrics-addr 127.0.0.1:9464
//
// Exit status is 2 for invalid input, 3 when the session is rejected,
// 4 when a service cannot be reached and 1 for other failures.
package main
