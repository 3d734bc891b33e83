package services

import "regexp"

// phonePattern matches local and international phone formats the practice
// accepts on registration and booking forms.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s-]{6,17}$`)
