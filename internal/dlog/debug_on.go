// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build debug

package dlog

const enabled = true
