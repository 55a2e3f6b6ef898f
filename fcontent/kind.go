package fcontent

// Kind is a closed enum of grammar productions and lexical tokens. The pp*
// constants are preprocessor-tree kinds (directive structure); the pa*
// constants are parser-tree kinds (syntactic structure of expanded source).
// This partition separates preprocessor-tree kinds from parser-tree kinds
// under a single tag space.
type Kind uint16

const (
	KindInvalid Kind = iota

	// Preprocessor-tree kinds.
	ppRoot
	ppDefine
	ppDefineArg
	ppMacroBody
	ppMacroBodyToken
	ppMacroInstance
	ppIfdef
	ppIfndef
	ppElsif
	ppElse
	ppEndif
	ppInclude
	ppLine
	ppDefaultNettype
	ppTimescale
	ppResetall
	ppUndef
	ppUndefineall
	ppPragma
	ppCelldefine
	ppEndcelldefine
	ppText

	// Parser-tree kinds: top-level design units.
	paSourceText
	paModuleDecl
	paInterfaceDecl
	paProgramDecl
	paPackageDecl
	paClassDecl
	paUdpDecl
	paCheckerDecl

	// Parser-tree kinds: ports and parameters.
	paPortList
	paPortDecl
	paParameterDecl
	paParamAssignment

	// Parser-tree kinds: type/data declarations.
	paTypedefDecl
	paDataDecl
	paNetDecl
	paVarDecl

	// Parser-tree kinds: statements.
	paSeqBlock
	paParBlock
	paIfStmt
	paIfElseStmt
	paCaseStmt
	paCaseItem
	paBlockingAssign
	paNonblockingAssign
	paContinuousAssign
	paInstantiation
	paGenerateIf
	paGenerateFor
	paGenerateCase
	paGenerateBlock
	paInitialBlock
	paAlwaysBlock
	paTaskDecl
	paFunctionDecl
	paUnsupportedStmt

	// Parser-tree kinds: expressions and terminals.
	paBinaryExpr
	paUnaryExpr
	paHierPath
	paIdentifier
	paNumberLiteral
	paStringLiteral
	paSystemCall
	paOperatorTerminal
	paKeywordTerminal
	paCommentTerminal
	paWhitespaceTerminal

	// PREPROC_BEGIN/PREPROC_END sentinel kinds, resolved at tree-walk time
	// by deep-copying the referenced preprocessor subtree into the AST
	//.
	paPreprocBegin
	paPreprocEnd
)

var ppKindNames = map[Kind]string{
	ppRoot: "pp_root", ppDefine: "pp_define", ppDefineArg: "pp_define_arg",
	ppMacroBody: "pp_macro_body", ppMacroBodyToken: "pp_macro_body_token",
	ppMacroInstance: "pp_macro_instance", ppIfdef: "pp_ifdef", ppIfndef: "pp_ifndef",
	ppElsif: "pp_elsif", ppElse: "pp_else", ppEndif: "pp_endif", ppInclude: "pp_include",
	ppLine: "pp_line", ppDefaultNettype: "pp_default_nettype", ppTimescale: "pp_timescale",
	ppResetall: "pp_resetall", ppUndef: "pp_undef", ppUndefineall: "pp_undefineall",
	ppPragma: "pp_pragma", ppCelldefine: "pp_celldefine", ppEndcelldefine: "pp_endcelldefine",
	ppText: "pp_text",
}

var paKindNames = map[Kind]string{
	paSourceText: "pa_source_text", paModuleDecl: "pa_module_decl",
	paInterfaceDecl: "pa_interface_decl", paProgramDecl: "pa_program_decl",
	paPackageDecl: "pa_package_decl", paClassDecl: "pa_class_decl",
	paUdpDecl: "pa_udp_decl", paCheckerDecl: "pa_checker_decl",
	paPortList: "pa_port_list", paPortDecl: "pa_port_decl",
	paParameterDecl: "pa_parameter_decl", paParamAssignment: "pa_param_assignment",
	paTypedefDecl: "pa_typedef_decl", paDataDecl: "pa_data_decl",
	paNetDecl: "pa_net_decl", paVarDecl: "pa_var_decl",
	paSeqBlock: "pa_seq_block", paParBlock: "pa_par_block",
	paIfStmt: "pa_if_stmt", paIfElseStmt: "pa_if_else_stmt",
	paCaseStmt: "pa_case_stmt", paCaseItem: "pa_case_item",
	paBlockingAssign: "pa_blocking_assign", paNonblockingAssign: "pa_nonblocking_assign",
	paContinuousAssign: "pa_continuous_assign", paInstantiation: "pa_instantiation",
	paGenerateIf: "pa_generate_if", paGenerateFor: "pa_generate_for",
	paGenerateCase: "pa_generate_case", paGenerateBlock: "pa_generate_block",
	paInitialBlock: "pa_initial_block", paAlwaysBlock: "pa_always_block",
	paTaskDecl: "pa_task_decl", paFunctionDecl: "pa_function_decl",
	paUnsupportedStmt: "pa_unsupported_stmt",
	paBinaryExpr:      "pa_binary_expr", paUnaryExpr: "pa_unary_expr",
	paHierPath: "pa_hier_path", paIdentifier: "pa_identifier",
	paNumberLiteral: "pa_number_literal", paStringLiteral: "pa_string_literal",
	paSystemCall: "pa_system_call", paOperatorTerminal: "pa_operator_terminal",
	paKeywordTerminal: "pa_keyword_terminal", paCommentTerminal: "pa_comment_terminal",
	paWhitespaceTerminal: "pa_whitespace_terminal",
	paPreprocBegin:       "pa_preproc_begin", paPreprocEnd: "pa_preproc_end",
}

func (k Kind) String() string {
	if name, ok := ppKindNames[k]; ok {
		return name
	}
	if name, ok := paKindNames[k]; ok {
		return name
	}
	return "invalid"
}

// IsPreprocessorKind reports whether k belongs to the pp* partition.
func (k Kind) IsPreprocessorKind() bool {
	_, ok := ppKindNames[k]
	return ok
}

// IsParserKind reports whether k belongs to the pa* partition.
func (k Kind) IsParserKind() bool {
	_, ok := paKindNames[k]
	return ok
}

// IsTerminal reports whether k represents a lexical leaf rather than a
// grammar-rule composite.
func (k Kind) IsTerminal() bool {
	switch k {
	case paIdentifier, paNumberLiteral, paStringLiteral, paOperatorTerminal,
		paKeywordTerminal, paCommentTerminal, paWhitespaceTerminal:
		return true
	default:
		return false
	}
}
