// Package main provides the entry point for the AlphaAutos dealership
// management application. It initializes and runs a web server using the
// Fiber framework that lets administrators, managers and buyers browse,
// create, search, edit and delete dealerships, vehicles, brands, employees,
// buyers, sales, insurers, insurance policies and maintenance records.
// The application uses gorm for data persistence and role-based permissions
// to gate every mutating page.
package main
